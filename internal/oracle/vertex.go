package oracle

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"
)

const (
	vertexDefaultModel  = "gemini-1.5-flash"
	vertexClientTimeout = 30 * time.Second
)

func init() {
	RegisterFactory("vertex", func(config map[string]any) (Oracle, error) {
		projectID := ""
		if id, ok := config["project_id"].(string); ok {
			projectID = id
		}
		if projectID == "" {
			projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
		}
		if projectID == "" {
			return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT not set")
		}

		location := ""
		if loc, ok := config["location"].(string); ok {
			location = loc
		}
		if location == "" {
			location = os.Getenv("VERTEX_AI_LOCATION")
		}
		if location == "" {
			location = "us-central1"
		}

		o, err := NewVertexOracle(projectID, location)
		if err != nil {
			return nil, err
		}
		if model, ok := config["model"].(string); ok && model != "" {
			o.model = model
		}
		if sys, ok := config["system_prompt"].(string); ok {
			o.systemPrompt = sys
		}
		if temp, ok := config["temperature"].(float64); ok {
			o.temperature = float32(temp)
		}
		if maxTokens, ok := config["max_tokens"].(int); ok {
			o.maxTokens = int32(maxTokens)
		}
		return o, nil
	})
}

// VertexOracle implements Oracle on Google Vertex AI via the Gen AI SDK.
// Authentication uses Application Default Credentials.
type VertexOracle struct {
	projectID    string
	location     string
	model        string
	systemPrompt string
	temperature  float32
	maxTokens    int32
	client       *genai.Client
}

// NewVertexOracle creates a new Vertex AI oracle
func NewVertexOracle(projectID, location string) (*VertexOracle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), vertexClientTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return &VertexOracle{
		projectID: projectID,
		location:  location,
		model:     vertexDefaultModel,
		client:    client,
	}, nil
}

// Name returns the provider name
func (o *VertexOracle) Name() string {
	return "vertex"
}

// Send submits the prompt and returns the reply text.
func (o *VertexOracle) Send(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(o.temperature),
	}
	if o.maxTokens > 0 {
		config.MaxOutputTokens = o.maxTokens
	}
	if o.systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: o.systemPrompt}},
		}
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	resp, err := o.client.Models.GenerateContent(ctx, o.model, contents, config)
	if err != nil {
		return "", NewError("vertex", ErrorCodeUnknown, err.Error(), err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", NewError("vertex", ErrorCodeUnknown, "no candidates in response", nil)
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text, nil
}

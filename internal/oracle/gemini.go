package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	geminiDefaultModel = "gemini-1.5-flash"
)

func init() {
	RegisterFactory("gemini", func(config map[string]any) (Oracle, error) {
		apiKey := ""
		if key, ok := config["api_key"].(string); ok {
			apiKey = key
		}
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY not set")
		}

		baseURL := geminiBaseURL
		if url, ok := config["base_url"].(string); ok && url != "" {
			baseURL = url
		}

		o := NewGeminiOracle(apiKey, baseURL)
		if model, ok := config["model"].(string); ok && model != "" {
			o.model = model
		}
		if sys, ok := config["system_prompt"].(string); ok {
			o.systemPrompt = sys
		}
		if temp, ok := config["temperature"].(float64); ok {
			o.temperature = temp
		}
		if maxTokens, ok := config["max_tokens"].(int); ok {
			o.maxTokens = maxTokens
		}
		return o, nil
	})
}

// GeminiOracle implements Oracle on the Google Gemini REST API.
type GeminiOracle struct {
	apiKey       string
	baseURL      string
	model        string
	systemPrompt string
	temperature  float64
	maxTokens    int
	client       *http.Client
}

// NewGeminiOracle creates a new Gemini oracle
func NewGeminiOracle(apiKey, baseURL string) *GeminiOracle {
	return &GeminiOracle{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   geminiDefaultModel,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Name returns the provider name
func (o *GeminiOracle) Name() string {
	return "gemini"
}

type geminiRequest struct {
	Contents          []geminiContent  `json:"contents"`
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Send submits the prompt and returns the reply text.
// One request per call, no retries; the user re-issues input to retry.
func (o *GeminiOracle) Send(ctx context.Context, prompt string) (string, error) {
	gReq := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if o.systemPrompt != "" {
		gReq.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: o.systemPrompt}},
		}
	}
	if o.temperature != 0 || o.maxTokens != 0 {
		gReq.GenerationConfig = &geminiGenConfig{
			Temperature:     o.temperature,
			MaxOutputTokens: o.maxTokens,
		}
	}

	body, err := json.Marshal(gReq)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", o.baseURL, o.model, o.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", NewError("gemini", ErrorCodeTimeout, err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", o.handleErrorResponse(resp)
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", NewError("gemini", ErrorCodeUnknown, err.Error(), err)
	}

	if len(gResp.Candidates) == 0 {
		return "", NewError("gemini", ErrorCodeUnknown, "no candidates in response", nil)
	}

	var text string
	for _, part := range gResp.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text, nil
}

func (o *GeminiOracle) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp geminiResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		code := ErrorCodeUnknown
		switch resp.StatusCode {
		case 401, 403:
			code = ErrorCodeAuthentication
		case 429:
			code = ErrorCodeRateLimit
		case 400:
			code = ErrorCodeInvalidRequest
		case 404:
			code = ErrorCodeModelNotFound
		default:
			if resp.StatusCode >= 500 {
				code = ErrorCodeServerError
			}
		}
		return &Error{
			Provider:    "gemini",
			Code:        code,
			Message:     errResp.Error.Message,
			StatusCode:  resp.StatusCode,
			IsRetryable: code == ErrorCodeRateLimit || code == ErrorCodeServerError,
		}
	}

	return NewError("gemini", ErrorCodeUnknown, string(body), nil)
}

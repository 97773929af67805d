package oracle

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

func init() {
	RegisterFactory("openai", func(config map[string]any) (Oracle, error) {
		apiKey := ""
		if key, ok := config["api_key"].(string); ok {
			apiKey = key
		}
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}

		cfg := openai.DefaultConfig(apiKey)
		if url, ok := config["base_url"].(string); ok && url != "" {
			cfg.BaseURL = url
		}

		o := NewOpenAIOracleWithClient(openai.NewClientWithConfig(cfg))
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
			o.maxTokens = maxTokens
		}
		return o, nil
	})
}

// ChatClient is the slice of the OpenAI client the oracle needs.
// Kept narrow for testability.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIOracle implements Oracle on the OpenAI chat completion API.
type OpenAIOracle struct {
	client       ChatClient
	model        string
	systemPrompt string
	temperature  float32
	maxTokens    int
}

// NewOpenAIOracleWithClient creates an oracle with a custom client (useful for testing)
func NewOpenAIOracleWithClient(client ChatClient) *OpenAIOracle {
	return &OpenAIOracle{
		client: client,
		model:  defaultOpenAIModel,
	}
}

// Name returns the provider name
func (o *OpenAIOracle) Name() string {
	return "openai"
}

// Send submits the prompt and returns the reply text.
func (o *OpenAIOracle) Send(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if o.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: o.systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		return "", o.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", NewError("openai", ErrorCodeUnknown, "no choices in response", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIOracle) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := ErrorCodeUnknown
		switch apiErr.HTTPStatusCode {
		case 400:
			code = ErrorCodeInvalidRequest
		case 401:
			code = ErrorCodeAuthentication
		case 404:
			code = ErrorCodeModelNotFound
		case 429:
			code = ErrorCodeRateLimit
		default:
			if apiErr.HTTPStatusCode >= 500 {
				code = ErrorCodeServerError
			}
		}
		return &Error{
			Provider:      "openai",
			Code:          code,
			Message:       apiErr.Message,
			StatusCode:    apiErr.HTTPStatusCode,
			IsRetryable:   isRetryableCode(code),
			OriginalError: err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewError("openai", ErrorCodeTimeout, err.Error(), err)
	}

	return NewError("openai", ErrorCodeUnknown, err.Error(), err)
}

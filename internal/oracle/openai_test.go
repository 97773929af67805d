package oracle

import (
	"context"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatClient struct {
	lastReq openai.ChatCompletionRequest
	resp    openai.ChatCompletionResponse
	err     error
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestOpenAIOracle_Send(t *testing.T) {
	client := &fakeChatClient{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "[FAIL] Wrong."}},
			},
		},
	}

	o := NewOpenAIOracleWithClient(client)
	o.systemPrompt = "You are a strict teacher."

	reply, err := o.Send(context.Background(), "My answer")
	require.NoError(t, err)
	assert.Equal(t, "[FAIL] Wrong.", reply)

	require.Len(t, client.lastReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, client.lastReq.Messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, client.lastReq.Messages[1].Role)
	assert.Equal(t, "My answer", client.lastReq.Messages[1].Content)
	assert.Equal(t, defaultOpenAIModel, client.lastReq.Model)
}

func TestOpenAIOracle_NoSystemPrompt(t *testing.T) {
	client := &fakeChatClient{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "hi"}},
			},
		},
	}

	o := NewOpenAIOracleWithClient(client)
	_, err := o.Send(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, client.lastReq.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, client.lastReq.Messages[0].Role)
}

func TestOpenAIOracle_APIError(t *testing.T) {
	client := &fakeChatClient{
		err: &openai.APIError{
			HTTPStatusCode: 429,
			Message:        "rate limited",
		},
	}

	o := NewOpenAIOracleWithClient(client)
	_, err := o.Send(context.Background(), "q")
	require.Error(t, err)

	var oErr *Error
	require.ErrorAs(t, err, &oErr)
	assert.Equal(t, ErrorCodeRateLimit, oErr.Code)
	assert.True(t, oErr.IsRetryable)
	assert.Equal(t, 429, oErr.StatusCode)
}

func TestOpenAIOracle_EmptyChoices(t *testing.T) {
	client := &fakeChatClient{resp: openai.ChatCompletionResponse{}}

	o := NewOpenAIOracleWithClient(client)
	_, err := o.Send(context.Background(), "q")
	require.Error(t, err)

	var oErr *Error
	require.ErrorAs(t, err, &oErr)
	assert.Equal(t, ErrorCodeUnknown, oErr.Code)
}

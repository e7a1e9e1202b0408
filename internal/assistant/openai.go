package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
)

// OpenAIProvider implements LLMProvider against any OpenAI-compatible
// chat-completions endpoint (OpenRouter by default).
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider posting to baseURL + "/chat/completions".
// A zero timeout leaves the request bounded only by the transport.
func NewOpenAIProvider(apiKey, baseURL, model string, timeout time.Duration) *OpenAIProvider {
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &messageCheck{next: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}},
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	config.HTTPClient = httpClient

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Chat sends the conversation once. There are no retries: every failure is
// returned to the caller, which treats it as fatal.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Message, error) {
	req := openai.ChatCompletionRequest{
		Model:      p.model,
		Messages:   toOpenAIMessages(messages),
		Tools:      toOpenAITools(tools),
		ToolChoice: "auto",
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	return fromOpenAIMessage(resp.Choices[0].Message), nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	apiMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		var toolCalls []openai.ToolCall
		if len(msg.ToolCalls) > 0 {
			toolCalls = make([]openai.ToolCall, len(msg.ToolCalls))
			for j, tc := range msg.ToolCalls {
				callType := openai.ToolType(tc.Type)
				if callType == "" {
					callType = openai.ToolTypeFunction
				}
				toolCalls[j] = openai.ToolCall{
					ID:   tc.ID,
					Type: callType,
					Function: openai.FunctionCall{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				}
			}
		}

		apiMessages[i] = openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCalls:  toolCalls,
			ToolCallID: msg.ToolCallID,
		}
	}
	return apiMessages
}

func toOpenAITools(tools []ToolDefinition) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	apiTools := make([]openai.Tool, len(tools))
	for i, t := range tools {
		apiTools[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return apiTools
}

func fromOpenAIMessage(msg openai.ChatCompletionMessage) *Message {
	role := Role(msg.Role)
	if role == "" {
		role = RoleAssistant
	}
	result := &Message{
		Role:    role,
		Content: msg.Content,
	}

	if len(msg.ToolCalls) > 0 {
		result.ToolCalls = make([]ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			result.ToolCalls[i] = ToolCall{
				ID:   tc.ID,
				Type: string(tc.Type),
				Function: FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
	}
	return result
}

// messageCheck rejects successful responses whose first choice has no
// message. Once decoded, a missing or null message is indistinguishable from
// an empty one.
type messageCheck struct {
	next http.RoundTripper
}

func (m *messageCheck) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := m.next.RoundTrip(req)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	// Invalid JSON is left to the decoder.
	if gjson.ValidBytes(body) {
		msg := gjson.GetBytes(body, "choices.0.message")
		if !msg.Exists() || msg.Type == gjson.Null {
			return nil, ErrNoChoices
		}
	}
	return resp, nil
}

// classifyError maps client errors onto the fatal protocol errors.
func classifyError(err error) error {
	if errors.Is(err, ErrNoChoices) {
		return ErrNoChoices
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &HTTPStatusError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &HTTPStatusError{StatusCode: reqErr.HTTPStatusCode, Message: string(reqErr.Body), Err: err}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return fmt.Errorf("HTTP error: %w", err)
}

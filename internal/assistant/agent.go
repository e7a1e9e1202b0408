package assistant

import (
	"context"

	"github.com/reinhart/loopagent/internal/logger"
)

const (
	DefaultMaxIterations = 10
	DefaultMaxMessages   = 30

	minMessages = 2
)

// Result is the outcome of a run that did not fail.
type Result struct {
	// Content is the final assistant text. It is empty when the model
	// answered without content or when the limit was reached.
	Content string
	// LimitReached is set when every iteration ended in tool calls.
	LimitReached bool
	Iterations   int
}

// Agent manages the conversation flow between the prompt, the LLM, and the tools
type Agent struct {
	provider      LLMProvider
	registry      *ToolRegistry
	definitions   []ToolDefinition
	maxIterations int
	maxMessages   int
	history       *Conversation
}

// Option configures an Agent.
type Option func(*Agent)

// WithMaxIterations caps the number of model calls per run.
func WithMaxIterations(n int) Option {
	return func(a *Agent) { a.maxIterations = n }
}

// WithMaxMessages sets the conversation bound. Eviction removes index 1, so
// bounds below 2 are raised to 2.
func WithMaxMessages(n int) Option {
	return func(a *Agent) { a.maxMessages = max(n, minMessages) }
}

// NewAgent creates a new agent instance. The tool definitions are captured
// here and sent unchanged on every request.
func NewAgent(provider LLMProvider, registry *ToolRegistry, opts ...Option) *Agent {
	agent := &Agent{
		provider:      provider,
		registry:      registry,
		definitions:   registry.Definitions(),
		maxIterations: DefaultMaxIterations,
		maxMessages:   DefaultMaxMessages,
	}
	for _, opt := range opts {
		opt(agent)
	}
	return agent
}

// Run drives the model until it answers without tool calls or the iteration
// limit is reached. A returned error is a protocol failure; tool failures
// never surface here, they are fed back to the model.
func (a *Agent) Run(ctx context.Context, prompt string) (*Result, error) {
	logger.Info("Processing prompt (%d bytes)", len(prompt))
	a.history = NewConversation(prompt, a.maxMessages)

	for i := 1; i <= a.maxIterations; i++ {
		logger.Debug("Agent Loop Turn: %d", i)

		resp, err := a.provider.Chat(ctx, a.history.Messages(), a.definitions)
		if err != nil {
			logger.Info("LLM Error: %v", err)
			return nil, err
		}
		if resp.Role == "" {
			resp.Role = RoleAssistant
		}
		logger.Debug("Received response from LLM (Content len: %d, ToolCalls: %d)", len(resp.Content), len(resp.ToolCalls))

		a.history.Append(*resp)
		if a.history.Trim() {
			logger.Debug("Conversation over %d messages, evicted index 1", a.maxMessages)
		}

		if len(resp.ToolCalls) == 0 {
			logger.Info("Final response received after %d turns", i)
			return &Result{Content: resp.Content, Iterations: i}, nil
		}

		// Strictly in order: later calls may depend on earlier side effects.
		for _, tc := range resp.ToolCalls {
			a.history.Append(Message{
				Role:       RoleTool,
				ToolCallID: tc.ID,
				Content:    a.dispatch(ctx, tc),
			})
		}
	}

	logger.Warn("Agent loop limit reached after %d turns", a.maxIterations)
	return &Result{LimitReached: true, Iterations: a.maxIterations}, nil
}

// dispatch runs one tool call and renders its outcome as result text.
func (a *Agent) dispatch(ctx context.Context, tc ToolCall) string {
	logger.Info("Tool Call Request: %s(%s)", tc.Function.Name, tc.Function.Arguments)

	tool, ok := a.registry.Get(tc.Function.Name)
	if !ok {
		logger.Info("Error: Tool not found: %s", tc.Function.Name)
		return toolNotFound
	}

	output, err := tool.Execute(ctx, ParseArguments(tc.Function.Arguments))
	if err != nil {
		logger.Info("Tool Execution Error (%s): %v", tc.Function.Name, err)
		return ToolErrorText(err)
	}
	logger.Debug("Tool Output (%s): %d bytes", tc.Function.Name, len(output))
	return output
}

// History returns a copy of the conversation of the last run.
func (a *Agent) History() []Message {
	if a.history == nil {
		return nil
	}
	return a.history.Messages()
}

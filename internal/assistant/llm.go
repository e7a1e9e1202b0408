package assistant

import (
	"context"
)

// Role represents the role of a message sender
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message represents a single message in the conversation
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string // Used when Role is Tool to link back to the call
}

// ToolCall represents a request from the LLM to execute a tool
type ToolCall struct {
	ID       string
	Type     string
	Function FunctionCall
}

// FunctionCall represents the details of a function execution request
type FunctionCall struct {
	Name      string
	Arguments string // JSON string of arguments, parsed at dispatch time
}

// ToolDefinition defines a tool that can be used by the LLM
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  ParameterSchema
}

// ParameterSchema is the object schema advertised for a tool's arguments.
type ParameterSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Param names one string argument of a tool.
type Param struct {
	Name        string
	Description string
}

// StringParams builds an object schema in which every param is a required
// string, which covers every built-in tool.
func StringParams(params ...Param) ParameterSchema {
	schema := ParameterSchema{
		Type:       "object",
		Properties: make(map[string]Property, len(params)),
		Required:   make([]string, 0, len(params)),
	}
	for _, p := range params {
		schema.Properties[p.Name] = Property{Type: "string", Description: p.Description}
		schema.Required = append(schema.Required, p.Name)
	}
	return schema
}

// LLMProvider defines the interface for interacting with LLM backends
type LLMProvider interface {
	// Chat sends the whole conversation and returns the model's next message.
	// Any error is a protocol failure and ends the run.
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Message, error)
}

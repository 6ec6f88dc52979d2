package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Tool represents a function that can be called by the LLM
type Tool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition defines a function that can be called
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolCall represents a function call from the LLM
type ToolCall struct {
	ID        string                 `json:"id,omitempty"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToOpenAITools converts tool definitions to the go-openai request format
func ToOpenAITools(tools []Tool) []openai.Tool {
	openaiTools := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		openaiTools = append(openaiTools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		})
	}
	return openaiTools
}

// FromOpenAIToolCall converts a tool call returned by an OpenAI-compatible
// model into a ToolCall with decoded arguments
func FromOpenAIToolCall(tc openai.ToolCall) (ToolCall, error) {
	args, err := parseJSONArguments(tc.Function.Arguments)
	if err != nil {
		return ToolCall{}, fmt.Errorf("tool call %s (%s): %w", tc.ID, tc.Function.Name, err)
	}
	return ToolCall{
		ID:        tc.ID,
		Name:      tc.Function.Name,
		Arguments: args,
	}, nil
}

// parseJSONArguments parses the JSON string arguments into a map
func parseJSONArguments(jsonStr string) (map[string]interface{}, error) {
	var args map[string]interface{}
	if jsonStr == "" {
		return make(map[string]interface{}), nil
	}

	err := json.Unmarshal([]byte(jsonStr), &args)
	if err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}
	if args == nil {
		args = make(map[string]interface{})
	}

	return args, nil
}

package tools

import (
	"ollama-tools/backend/internal/adapter"
	"ollama-tools/backend/internal/ollama"
)

// GetWebTools returns web search/fetch tool definitions
func GetWebTools() []adapter.Tool {
	return []adapter.Tool{
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolWebSearch,
				Description: "perform a web search using Ollama",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{
							"type":        "string",
							"description": "The search query",
						},
						"max_results": map[string]interface{}{
							"type":        "integer",
							"description": "Maximum number of results the service should return",
							"default":     ollama.DefaultMaxResults,
							"minimum":     1,
						},
					},
					"required": []string{"query"},
				},
			},
		},
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolFetchWebpage,
				Description: "fetch the content of a webpage using Ollama",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"url": map[string]interface{}{
							"type":        "string",
							"description": "The URL of the webpage to fetch",
						},
					},
					"required": []string{"url"},
				},
			},
		},
	}
}

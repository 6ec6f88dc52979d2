package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"ollama-tools/backend/internal/ollama"
	apperrors "ollama-tools/backend/pkg/errors"
)

// WebClient is the part of the Ollama client the web tools need
type WebClient interface {
	WebSearch(ctx context.Context, query string, maxResults int) ([]ollama.SearchResult, error)
	FetchWebPage(ctx context.Context, url string) (*ollama.WebPage, error)
}

// RegisterWebTools binds web_search and fetch_webpage to client
func RegisterWebTools(reg *Registry, client WebClient) error {
	handlers := map[string]Handler{
		ToolWebSearch:    webSearchHandler(client),
		ToolFetchWebpage: fetchWebpageHandler(client),
	}

	for _, def := range GetWebTools() {
		if err := reg.Register(def, handlers[def.Function.Name]); err != nil {
			return err
		}
	}
	return nil
}

func webSearchHandler(client WebClient) Handler {
	return func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
		query, err := requiredString(ToolWebSearch, args, "query")
		if err != nil {
			return nil, err
		}
		maxResults, err := optionalInt(ToolWebSearch, args, "max_results", ollama.DefaultMaxResults)
		if err != nil {
			return nil, err
		}

		results, err := client.WebSearch(ctx, query, maxResults)
		if err != nil {
			return nil, err
		}

		return &ToolResult{
			Success: true,
			Data:    results,
			Message: fmt.Sprintf("Found %d results for: %s", len(results), query),
		}, nil
	}
}

func fetchWebpageHandler(client WebClient) Handler {
	return func(ctx context.Context, args map[string]interface{}) (*ToolResult, error) {
		url, err := requiredString(ToolFetchWebpage, args, "url")
		if err != nil {
			return nil, err
		}

		page, err := client.FetchWebPage(ctx, url)
		if err != nil {
			return nil, err
		}

		return &ToolResult{
			Success: true,
			Data:    page,
			Message: fmt.Sprintf("Fetched %q (%d links)", page.Title, len(page.Links)),
		}, nil
	}
}

func requiredString(tool string, args map[string]interface{}, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", apperrors.NewToolInvalidArguments(tool, key+" is required")
	}
	s, ok := raw.(string)
	if !ok {
		return "", apperrors.NewToolInvalidArguments(tool, key+" must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return "", apperrors.NewToolInvalidArguments(tool, key+" is required")
	}
	return s, nil
}

func optionalInt(tool string, args map[string]interface{}, key string, def int) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}

	var f float64
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		f = v
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, apperrors.NewToolInvalidArguments(tool, key+" must be an integer")
		}
		f = n
	default:
		return 0, apperrors.NewToolInvalidArguments(tool, key+" must be an integer")
	}

	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, apperrors.NewToolInvalidArguments(tool, key+" must be an integer")
	}
	return int(f), nil
}

// Package ollama is a client for the Ollama hosted web search and web fetch APIs.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"ollama-tools/backend/internal/source"
	"ollama-tools/backend/internal/transport"
	apperrors "ollama-tools/backend/pkg/errors"
	"ollama-tools/backend/pkg/logger"
)

const (
	// DefaultEndpoint is the public Ollama API root
	DefaultEndpoint = "https://ollama.com/api"
	// DefaultMaxResults is used when WebSearch gets a non-positive limit
	DefaultMaxResults = 5

	ResourceWebSearch = "web_search"
	ResourceWebFetch  = "web_fetch"

	// maxErrorBody caps how much of a failed response ends up in the error message
	maxErrorBody = 512
)

// SearchResult is one hit returned by the web_search API.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// WebPage is the extracted page returned by the web_fetch API.
type WebPage struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Links   []string `json:"links"`
}

// Client calls the Ollama web APIs and records fetched pages as sources.
// It is safe for concurrent use.
type Client struct {
	transport transport.Transport
	apiKey    string
	endpoint  string
	sources   *source.Collection
	logger    *zap.Logger
}

var _ source.Provider = (*Client)(nil)

// NewClient creates a new Ollama client. apiKey may be empty when t is
// pre-scoped; an empty endpoint selects DefaultEndpoint. Nothing is validated
// here, a missing credential is reported by the first call.
func NewClient(t transport.Transport, apiKey, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		transport: t,
		apiKey:    apiKey,
		endpoint:  strings.TrimRight(endpoint, "/"),
		sources:   source.NewCollection(),
		logger:    logger.Named("ollama"),
	}
}

// Endpoint returns the base URL used with plain transports.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// WebSearch performs a web search. Results are returned exactly as the API
// orders them; maxResults is only forwarded to the API, and a value of zero
// or less is replaced by DefaultMaxResults.
func (c *Client) WebSearch(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	resp, err := c.request(ctx, http.MethodPost, ResourceWebSearch, map[string]interface{}{
		"query":       query,
		"max_results": maxResults,
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results *[]SearchResult `json:"results"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, apperrors.NewDecodeFailed(ResourceWebSearch, err)
	}
	if payload.Results == nil {
		return nil, apperrors.NewDecodeMissingField(ResourceWebSearch, "results")
	}

	return *payload.Results, nil
}

// FetchWebPage fetches the content of a webpage and appends it to the
// client's sources before returning it.
func (c *Client) FetchWebPage(ctx context.Context, url string) (*WebPage, error) {
	resp, err := c.request(ctx, http.MethodPost, ResourceWebFetch, map[string]interface{}{
		"url": url,
	})
	if err != nil {
		return nil, err
	}

	page, err := decodeWebPage(resp)
	if err != nil {
		return nil, err
	}

	c.sources.Add(source.New(page.Title, page.Links, page.Content))

	return page, nil
}

// Sources returns a snapshot of every page fetched so far.
func (c *Client) Sources() []source.Source {
	return c.sources.All()
}

// SourceCollection exposes the live collection for hosts that render citations.
func (c *Client) SourceCollection() *source.Collection {
	return c.sources
}

// request picks the addressing mode: a pre-scoped transport gets the bare
// resource, a plain one the full URL plus the bearer credential. A plain
// transport without credential fails before anything is sent.
func (c *Client) request(ctx context.Context, method, resource string, body map[string]interface{}) (*transport.Response, error) {
	var req transport.Request
	switch {
	case !c.transport.IsPreScoped() && c.apiKey == "":
		return nil, apperrors.NewConfigMissingCredential(resource)
	case c.transport.IsPreScoped():
		req = transport.Request{
			Method: method,
			Target: resource,
			JSON:   body,
		}
	default:
		req = transport.Request{
			Method:      method,
			Target:      fmt.Sprintf("%s/%s", c.endpoint, resource),
			JSON:        body,
			BearerToken: c.apiKey,
		}
	}

	doer := c.transport.Doer()
	if doer == nil {
		return nil, apperrors.NewConfigValidationFailed("transport", "no http client configured")
	}

	c.logger.Debug("Ollama request",
		zap.String("method", method),
		zap.String("resource", resource),
		zap.Bool("pre_scoped", c.transport.IsPreScoped()),
	)

	resp, err := doer.Do(ctx, req)
	if err != nil {
		return nil, apperrors.NewTransportFailed(resource, err)
	}
	if !resp.IsSuccess() {
		return nil, apperrors.NewTransportStatus(resource, resp.StatusCode, truncate(string(resp.Body), maxErrorBody))
	}

	c.logger.Debug("Ollama response",
		zap.String("resource", resource),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(resp.Body)),
	)

	return resp, nil
}

func decodeWebPage(resp *transport.Response) (*WebPage, error) {
	var raw struct {
		Title   *string   `json:"title"`
		Content *string   `json:"content"`
		Links   *[]string `json:"links"`
	}
	if err := resp.Decode(&raw); err != nil {
		return nil, apperrors.NewDecodeFailed(ResourceWebFetch, err)
	}

	switch {
	case raw.Title == nil:
		return nil, apperrors.NewDecodeMissingField(ResourceWebFetch, "title")
	case raw.Content == nil:
		return nil, apperrors.NewDecodeMissingField(ResourceWebFetch, "content")
	case raw.Links == nil:
		return nil, apperrors.NewDecodeMissingField(ResourceWebFetch, "links")
	}

	return &WebPage{
		Title:   *raw.Title,
		Content: *raw.Content,
		Links:   *raw.Links,
	}, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ollama-tools/backend/internal/ollama"
	"ollama-tools/backend/internal/source"
	"ollama-tools/backend/internal/tools"
	"ollama-tools/backend/internal/transport"
	"ollama-tools/backend/internal/transport/transporttest"
	"ollama-tools/backend/pkg/config"
)

func newTestRouter(t *testing.T, replies ...transporttest.Reply) (*gin.Engine, *transporttest.MockDoer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	doer := transporttest.NewMockDoer(replies...)
	client := ollama.NewClient(transport.Plain(doer), "foo", "")
	registry := tools.NewRegistry()
	require.NoError(t, tools.RegisterWebTools(registry, client))

	return newRouter(registry, zap.NewNop(), client.SourceCollection()), doer
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestListToolsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, http.MethodGet, "/api/tools", "")
	require.Equal(t, http.StatusOK, w.Code)

	defs, ok := decodeBody(t, w)["tools"].([]interface{})
	require.True(t, ok)
	require.Len(t, defs, 2)
	first := defs[0].(map[string]interface{})["function"].(map[string]interface{})
	assert.Equal(t, tools.ToolFetchWebpage, first["name"])
}

func TestExecuteToolEndpoint_WebSearch(t *testing.T) {
	router, doer := newTestRouter(t, transporttest.JSONReply(map[string]interface{}{
		"results": []map[string]interface{}{
			{"title": "Ollama", "url": "https://ollama.com", "content": "Cloud models are now available..."},
		},
	}))

	w := serve(router, http.MethodPost, "/api/tools/web_search", `{"query":"Ollama","max_results":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)

	req := doer.LastRequest()
	assert.Equal(t, "https://ollama.com/api/web_search", req.Target)
	assert.Equal(t, "foo", req.BearerToken)
}

func TestExecuteToolEndpoint_FetchThenSources(t *testing.T) {
	router, _ := newTestRouter(t, transporttest.JSONReply(map[string]interface{}{
		"title":   "Ollama",
		"content": "Cloud models are now available in Ollama...",
		"links":   []string{"https://ollama.com/", "https://ollama.com/models"},
	}))

	w := serve(router, http.MethodGet, "/api/sources", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decodeBody(t, w)["sources"])

	w = serve(router, http.MethodPost, "/api/tools/fetch_webpage", `{"url":"ollama.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])

	w = serve(router, http.MethodGet, "/api/sources", "")
	require.Equal(t, http.StatusOK, w.Code)
	sources := decodeBody(t, w)["sources"].([]interface{})
	require.Len(t, sources, 1)
	src := sources[0].(map[string]interface{})
	assert.Equal(t, "Ollama", src["name"])
	assert.Equal(t, "https://ollama.com/, https://ollama.com/models", src["reference"])
}

func TestExecuteToolEndpoint_UnknownTool(t *testing.T) {
	router, doer := newTestRouter(t)

	w := serve(router, http.MethodPost, "/api/tools/nope", `{}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, doer.RequestsCount())
}

func TestExecuteToolEndpoint_InvalidBody(t *testing.T) {
	router, doer := newTestRouter(t)

	w := serve(router, http.MethodPost, "/api/tools/web_search", `{"query":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, doer.RequestsCount())
}

func TestExecuteToolEndpoint_EmptyBodyReportsMissingArgument(t *testing.T) {
	router, doer := newTestRouter(t)

	w := serve(router, http.MethodPost, "/api/tools/fetch_webpage", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "tool", body["error_type"])
	assert.Zero(t, doer.RequestsCount())
}

func TestExecuteToolEndpoint_UpstreamFailure(t *testing.T) {
	router, _ := newTestRouter(t, transporttest.RawReply(http.StatusUnauthorized, `{"error":"unauthorized"}`))

	w := serve(router, http.MethodPost, "/api/tools/web_search", `{"query":"Ollama"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "transport", body["error_type"])
	assert.Contains(t, body["error"], "401")
	assert.NotContains(t, body, "retryable")
}

func TestNewTransport(t *testing.T) {
	cfg := &config.Config{
		OllamaEndpoint: "https://ollama.com/api",
		HTTPTimeout:    time.Second,
	}
	assert.False(t, newTransport(cfg).IsPreScoped())

	cfg.OllamaScopedClient = true
	assert.True(t, newTransport(cfg).IsPreScoped())
	assert.NotNil(t, newTransport(cfg).Doer())
}

func TestListToolsEndpoint_OpenAIFormat(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, http.MethodGet, "/api/tools?format=openai", "")
	require.Equal(t, http.StatusOK, w.Code)

	defs, ok := decodeBody(t, w)["tools"].([]interface{})
	require.True(t, ok)
	require.Len(t, defs, 2)
	first := defs[1].(map[string]interface{})
	assert.Equal(t, "function", first["type"])
	assert.Equal(t, tools.ToolWebSearch, first["function"].(map[string]interface{})["name"])
}

func TestToolCallsEndpoint(t *testing.T) {
	router, doer := newTestRouter(t, transporttest.JSONReply(map[string]interface{}{
		"results": []map[string]interface{}{
			{"title": "Ollama", "url": "https://ollama.com", "content": "Cloud models are now available..."},
		},
	}))

	w := serve(router, http.MethodPost, "/api/tool_calls",
		`{"id":"call_1","type":"function","function":{"name":"web_search","arguments":"{\"query\":\"Ollama\",\"max_results\":1}"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["result"].(map[string]interface{})["success"])

	msg := body["message"].(map[string]interface{})
	assert.Equal(t, "tool", msg["role"])
	assert.Equal(t, "call_1", msg["tool_call_id"])
	assert.Equal(t, tools.ToolWebSearch, msg["name"])
	assert.Contains(t, msg["content"], `"success":true`)

	require.Equal(t, 1, doer.RequestsCount())
	assert.Equal(t, 1, doer.LastRequest().JSON.(map[string]interface{})["max_results"])
}

func TestToolCallsEndpoint_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{"id":`, http.StatusBadRequest},
		{"invalid arguments", `{"id":"c","type":"function","function":{"name":"web_search","arguments":"{not json"}}`, http.StatusBadRequest},
		{"unsupported type", `{"id":"c","type":"retrieval","function":{"name":"web_search","arguments":"{}"}}`, http.StatusBadRequest},
		{"unknown tool", `{"id":"c","type":"function","function":{"name":"nope","arguments":"{}"}}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, doer := newTestRouter(t)

			w := serve(router, http.MethodPost, "/api/tool_calls", tt.body)

			assert.Equal(t, tt.status, w.Code)
			assert.Zero(t, doer.RequestsCount())
		})
	}
}

func TestExecuteToolEndpoint_RetryableFailure(t *testing.T) {
	router, _ := newTestRouter(t, transporttest.RawReply(http.StatusServiceUnavailable, `busy`))

	w := serve(router, http.MethodPost, "/api/tools/web_search", `{"query":"Ollama"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["retryable"])
}

type staticProvider []source.Source

func (p staticProvider) Sources() []source.Source { return p }

func TestSourcesEndpoint_MergesProviders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	first := source.NewCollection()
	first.Add(source.New("Ollama", []string{"https://ollama.com/"}, "..."))
	second := staticProvider{source.New("Models", nil, "list")}

	router := newRouter(tools.NewRegistry(), zap.NewNop(), first, second)

	w := serve(router, http.MethodGet, "/api/sources", "")
	require.Equal(t, http.StatusOK, w.Code)

	sources := decodeBody(t, w)["sources"].([]interface{})
	require.Len(t, sources, 2)
	assert.Equal(t, "Ollama", sources[0].(map[string]interface{})["name"])
	assert.Equal(t, "Models", sources[1].(map[string]interface{})["name"])
}

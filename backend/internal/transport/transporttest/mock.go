// Package transporttest provides an in-memory transport.Doer for tests.
package transporttest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"ollama-tools/backend/internal/transport"
)

// MockDoer replays canned responses in order and records every request.
type MockDoer struct {
	mu        sync.Mutex
	responses []Reply
	requests  []transport.Request
}

// Reply is one canned outcome: either a response or an error.
type Reply struct {
	Response *transport.Response
	Err      error
}

var _ transport.Doer = (*MockDoer)(nil)

// NewMockDoer returns a doer that answers with replies in order.
func NewMockDoer(replies ...Reply) *MockDoer {
	return &MockDoer{responses: replies}
}

// JSONReply encodes v as a 200 application/json response.
func JSONReply(v any) Reply {
	return StatusReply(http.StatusOK, v)
}

// StatusReply encodes v as a JSON response with the given status.
func StatusReply(status int, v any) Reply {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("transporttest: encoding reply: %v", err))
	}
	return RawReply(status, string(body))
}

// RawReply returns body verbatim with the given status.
func RawReply(status int, body string) Reply {
	return Reply{Response: &transport.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(body),
	}}
}

// ErrorReply makes the call fail with err.
func ErrorReply(err error) Reply {
	return Reply{Err: err}
}

// Do implements transport.Doer.
func (m *MockDoer) Do(ctx context.Context, req transport.Request) (*transport.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("transporttest: no response queued for %s %s", req.Method, req.Target)
	}

	next := m.responses[0]
	m.responses = m.responses[1:]
	return next.Response, next.Err
}

// RequestsCount returns how many calls reached the doer.
func (m *MockDoer) RequestsCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the recorded requests.
func (m *MockDoer) Requests() []transport.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]transport.Request(nil), m.requests...)
}

// LastRequest returns the most recent request, or the zero Request.
func (m *MockDoer) LastRequest() transport.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return transport.Request{}
	}
	return m.requests[len(m.requests)-1]
}

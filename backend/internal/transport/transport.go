// Package transport is the HTTP seam between the tool adapters and the network.
//
// A Transport is either pre-scoped (its Doer already knows the base URL and
// how to authenticate, so callers pass a relative resource) or plain (callers
// pass absolute URLs and their own bearer credential). The choice is made when
// the Transport is built, not by inspecting the client at call time.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Request describes a single outbound JSON call.
type Request struct {
	Method string
	// Target is a resource relative to the base URL for pre-scoped doers,
	// an absolute URL otherwise.
	Target string
	// JSON is encoded as the request body when non-nil.
	JSON any
	// BearerToken, when set, is sent as "Authorization: Bearer <token>".
	BearerToken string
}

// Response is the buffered result of a Request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v. An empty body is an error.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// Doer performs HTTP requests. Implementations own timeouts, retries and
// connection reuse; callers only invoke it.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Transport pairs a Doer with its addressing mode.
type Transport struct {
	doer      Doer
	preScoped bool
}

// PreScoped wraps a Doer that already carries base URL and auth.
func PreScoped(d Doer) Transport {
	return Transport{doer: d, preScoped: true}
}

// Plain wraps a generic Doer; callers address it with absolute URLs.
func Plain(d Doer) Transport {
	return Transport{doer: d}
}

// IsPreScoped reports whether the Transport was built with PreScoped.
func (t Transport) IsPreScoped() bool {
	return t.preScoped
}

// Doer returns the wrapped Doer.
func (t Transport) Doer() Doer {
	return t.doer
}

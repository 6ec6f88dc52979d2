package transport

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "ollama-tools/1.0"

// RestyDoer adapts a resty client to Doer.
type RestyDoer struct {
	client *resty.Client
}

var _ Doer = (*RestyDoer)(nil)

// NewRestyDoer wraps an existing resty client. The client is shared, never reconfigured.
func NewRestyDoer(client *resty.Client) *RestyDoer {
	return &RestyDoer{client: client}
}

// Do sends the request and buffers the response. Non-2xx statuses are not
// errors here; callers check Response.IsSuccess.
func (d *RestyDoer) Do(ctx context.Context, req Request) (*Response, error) {
	r := d.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")

	if req.JSON != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.JSON)
	}
	if req.BearerToken != "" {
		r.SetAuthToken(req.BearerToken)
	}

	resp, err := r.Execute(req.Method, req.Target)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// NewScopedClient builds a resty client bound to baseURL. When apiKey is set
// every request carries it as a bearer token.
func NewScopedClient(baseURL, apiKey string, timeout time.Duration) *resty.Client {
	client := NewPlainClient(timeout).
		SetBaseURL(strings.TrimRight(baseURL, "/"))
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return client
}

// NewPlainClient builds a resty client with no base URL or credentials.
func NewPlainClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout).
		SetRetryCount(0)
}

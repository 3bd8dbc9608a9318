// Package api is the storefront's only way to reach the backend. Every
// request goes through Client.do, which attaches the bearer token,
// classifies failures and validates decoded bodies before handing them on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxErrorBody = 64 << 10

type Client struct {
	base     string
	http     *http.Client
	validate *validator.Validate
}

type Option func(*Client)

// WithHTTPClient replaces the traced default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.base }

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{Status: resp.StatusCode, Method: method, Path: path, Message: errorMessage(raw)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidResponse, method, path, err)
	}
	if err := c.check(out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrInvalidResponse, method, path, err)
	}
	return nil
}

// check validates a decoded struct, or every struct element of a slice.
func (c *Client) check(v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Struct:
		return c.validate.Struct(rv.Interface())
	case reflect.Slice:
		for i := 0; i < rv.Len(); i++ {
			el := reflect.Indirect(rv.Index(i))
			if el.Kind() != reflect.Struct {
				continue
			}
			if err := c.validate.Struct(el.Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	return ""
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

func (c *Client) post(ctx context.Context, path, token string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, token, in, out)
}

func (c *Client) put(ctx context.Context, path, token string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, token, in, out)
}

func (c *Client) del(ctx context.Context, path, token string) error {
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// p joins escaped path segments onto a prefix: p("/api/cart", id).
func p(prefix string, segs ...string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// IsClientError reports a 4xx other than 401, i.e. a domain failure whose
// server message is worth showing.
func IsClientError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status >= 400 && e.Status < 500 && e.Status != http.StatusUnauthorized
}

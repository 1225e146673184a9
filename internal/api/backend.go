package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/alimah/internal/errors"
	"github.com/diogo/alimah/internal/models"
)

// Backend asks a remote HTTP service for assistant replies
type Backend struct {
	doer       Doer
	endpoint   string
	replyPath  string
	healthPath string
	token      string
	logger     *slog.Logger
}

// BackendOption is a function that configures the backend
type BackendOption func(*Backend)

// WithHTTPClient sets the transport used for requests
func WithHTTPClient(doer Doer) BackendOption {
	return func(b *Backend) {
		b.doer = doer
	}
}

// WithReplyPath sets the gjson path of the reply text
func WithReplyPath(path string) BackendOption {
	return func(b *Backend) {
		if path != "" {
			b.replyPath = path
		}
	}
}

// WithHealthPath enables a GET health check during Init
func WithHealthPath(path string) BackendOption {
	return func(b *Backend) {
		b.healthPath = path
	}
}

// WithToken sends a bearer token with every request
func WithToken(token string) BackendOption {
	return func(b *Backend) {
		b.token = token
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) BackendOption {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend creates an HTTP reply backend for endpoint
func NewBackend(endpoint string, opts ...BackendOption) (*Backend, error) {
	if endpoint == "" {
		endpoint = models.EndpointBackend
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", endpoint)
	}

	b := &Backend{
		endpoint:  endpoint,
		replyPath: PathReply,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.doer == nil {
		doer, err := NewHTTPClient(TransportOptions{})
		if err != nil {
			return nil, err
		}
		b.doer = doer
	}

	return b, nil
}

// Endpoint returns the reply URL
func (b *Backend) Endpoint() string {
	return b.endpoint
}

// Init checks the backend is reachable. Without a health path it is a no-op.
func (b *Backend) Init(ctx context.Context) error {
	if b.healthPath == "" {
		return nil
	}

	healthURL, err := resolveURL(b.endpoint, b.healthPath)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}
	b.prepare(req)

	resp, err := b.doer.Do(req)
	if err != nil {
		return apierrors.NewNetworkError("health check", healthURL, err)
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := readBody(resp, 4096)
		return apierrors.NewAPIError(resp.StatusCode, healthURL, "health check failed").WithBody(string(body))
	}

	b.logger.Debug("backend healthy", "url", healthURL)
	return nil
}

// Reply sends the user's message and returns the assistant's answer
func (b *Backend) Reply(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(map[string]string{"message": text})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	b.prepare(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.doer.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("send message", b.endpoint, err)
	}
	defer closeBody(resp)

	body, err := readBody(resp, maxBodySize)
	if err != nil {
		return "", apierrors.NewNetworkError("read reply", b.endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apierrors.NewAPIError(resp.StatusCode, b.endpoint, "reply request failed").WithBody(string(body))
	}

	reply, err := extractReply(body, resp.Header.Get("Content-Type"), b.replyPath)
	if err != nil {
		return "", err
	}

	b.logger.Debug("reply received", "bytes", len(reply))
	return reply, nil
}

// Close releases backend resources
func (b *Backend) Close() error {
	return nil
}

func (b *Backend) prepare(req *http.Request) {
	setDefaultHeaders(req, models.DefaultHeaders())
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
}

// extractReply pulls the reply text out of a response body. Plain text bodies
// and bare JSON strings are taken as the reply itself.
func extractReply(body []byte, contentType, path string) (string, error) {
	if strings.HasPrefix(strings.ToLower(contentType), "text/plain") {
		return nonEmpty(string(body))
	}

	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)
	if parsed.Type == gjson.String {
		return nonEmpty(parsed.String())
	}

	result := parsed.Get(path)
	if !result.Exists() {
		return "", apierrors.NewParseError("reply field not found", path)
	}
	return nonEmpty(result.String())
}

func nonEmpty(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apierrors.ErrNoContent
	}
	return s, nil
}

func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}

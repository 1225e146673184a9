package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	apierrors "github.com/diogo/alimah/internal/errors"
	"github.com/diogo/alimah/internal/models"
)

// Translator translates message text through the MyMemory API
type Translator struct {
	doer     Doer
	endpoint string
	email    string
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// TranslatorOption is a function that configures the translator
type TranslatorOption func(*Translator)

// WithTranslatorHTTPClient sets the transport used for requests
func WithTranslatorHTTPClient(doer Doer) TranslatorOption {
	return func(t *Translator) {
		t.doer = doer
	}
}

// WithEndpoint overrides the translation endpoint
func WithEndpoint(endpoint string) TranslatorOption {
	return func(t *Translator) {
		if endpoint != "" {
			t.endpoint = endpoint
		}
	}
}

// WithEmail sets the contact address MyMemory uses for its larger daily quota
func WithEmail(email string) TranslatorOption {
	return func(t *Translator) {
		t.email = email
	}
}

// WithRateLimit caps requests per second. Zero or less disables the limit.
func WithRateLimit(rps float64) TranslatorOption {
	return func(t *Translator) {
		if rps <= 0 {
			t.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTranslatorLogger sets the logger
func WithTranslatorLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTranslator creates a translation client
func NewTranslator(opts ...TranslatorOption) (*Translator, error) {
	t := &Translator{
		endpoint: models.EndpointTranslate,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.doer == nil {
		doer, err := NewHTTPClient(TransportOptions{})
		if err != nil {
			return nil, err
		}
		t.doer = doer
	}
	return t, nil
}

// Translate converts text from src to dst. Identical languages return text unchanged.
func (t *Translator) Translate(ctx context.Context, text string, src, dst models.Language) (string, error) {
	if src == dst {
		return text, nil
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", apierrors.NewTranslationError(string(src), string(dst), err)
		}
	}

	translated, err := t.do(ctx, text, src, dst)
	if err != nil {
		return "", apierrors.NewTranslationError(string(src), string(dst), err)
	}
	return translated, nil
}

func (t *Translator) do(ctx context.Context, text string, src, dst models.Language) (string, error) {
	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", string(src)+"|"+string(dst))
	if t.email != "" {
		query.Set("de", t.email)
	}
	reqURL := t.endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	setDefaultHeaders(req, models.DefaultHeaders())

	resp, err := t.doer.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("translate", t.endpoint, err)
	}
	defer closeBody(resp)

	body, err := readBody(resp, maxBodySize)
	if err != nil {
		return "", apierrors.NewNetworkError("read translation", t.endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apierrors.NewAPIError(resp.StatusCode, t.endpoint, "translation request failed").WithBody(string(body))
	}

	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	// MyMemory reports quota and input errors with HTTP 200 and its own status field
	if status := parsed.Get(PathResponseStatus); status.Exists() && status.Int() != 200 {
		return "", apierrors.NewAPIError(int(status.Int()), t.endpoint, parsed.Get(PathResponseDetail).String())
	}

	result := parsed.Get(PathTranslatedText)
	if !result.Exists() {
		return "", apierrors.NewParseError("translation not found", PathTranslatedText)
	}

	translated := strings.TrimSpace(result.String())
	if translated == "" {
		return "", apierrors.ErrNoContent
	}

	t.logger.Debug("translated", "langpair", string(src)+"|"+string(dst), "bytes", len(translated))
	return translated, nil
}

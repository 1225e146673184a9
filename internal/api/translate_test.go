package api

import (
	"context"
	"errors"
	"testing"
	"time"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/alimah/internal/errors"
	"github.com/diogo/alimah/internal/models"
)

func newTestTranslator(t *testing.T, doer Doer, opts ...TranslatorOption) *Translator {
	t.Helper()
	opts = append([]TranslatorOption{WithTranslatorHTTPClient(doer), WithTranslatorLogger(quietLogger())}, opts...)
	tr, err := NewTranslator(opts...)
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}
	return tr
}

func TestTranslator_Translate(t *testing.T) {
	doer := NewMockDoer(`{"responseData":{"translatedText":"Habari, unajisikiaje leo?","match":0.98},"responseStatus":200}`, 200)
	tr := newTestTranslator(t, doer)

	got, err := tr.Translate(context.Background(), "Hello! How are you feeling today?", models.English, models.Swahili)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "Habari, unajisikiaje leo?" {
		t.Errorf("Translate() = %q", got)
	}

	req := doer.LastRequest()
	if req.Method != "GET" {
		t.Errorf("method = %s", req.Method)
	}
	q := req.URL.Query()
	if q.Get("q") != "Hello! How are you feeling today?" {
		t.Errorf("q = %q", q.Get("q"))
	}
	if q.Get("langpair") != "en|sw" {
		t.Errorf("langpair = %q", q.Get("langpair"))
	}
	if q.Has("de") {
		t.Error("de should be omitted without an email")
	}
	if req.URL.Host != "api.mymemory.translated.net" {
		t.Errorf("host = %s", req.URL.Host)
	}
}

func TestTranslator_EmailAndEndpoint(t *testing.T) {
	doer := NewMockDoer(`{"responseData":{"translatedText":"Hello"},"responseStatus":200}`, 200)
	tr := newTestTranslator(t, doer, WithEmail("me@example.com"), WithEndpoint("http://127.0.0.1:9000/get"))

	if _, err := tr.Translate(context.Background(), "Habari", models.Swahili, models.English); err != nil {
		t.Fatal(err)
	}

	req := doer.LastRequest()
	if req.URL.Host != "127.0.0.1:9000" {
		t.Errorf("host = %s", req.URL.Host)
	}
	if got := req.URL.Query().Get("de"); got != "me@example.com" {
		t.Errorf("de = %q", got)
	}
	if got := req.URL.Query().Get("langpair"); got != "sw|en" {
		t.Errorf("langpair = %q", got)
	}
}

func TestTranslator_SameLanguage(t *testing.T) {
	doer := NewMockDoer("", 500)
	tr := newTestTranslator(t, doer)

	got, err := tr.Translate(context.Background(), "unchanged", models.English, models.English)
	if err != nil {
		t.Fatal(err)
	}
	if got != "unchanged" {
		t.Errorf("got %q", got)
	}
	if doer.Calls() != 0 {
		t.Errorf("expected no request, got %d", doer.Calls())
	}
}

func TestTranslator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doer   *MockDoer
		status int
	}{
		{"http error", NewMockDoer(`{}`, 502), 502},
		{"quota exceeded", NewMockDoer(`{"responseData":{"translatedText":"MYMEMORY WARNING"},"responseStatus":429,"responseDetails":"quota"}`, 200), 429},
		{"malformed json", NewMockDoer(`not json`, 200), 0},
		{"missing field", NewMockDoer(`{"responseStatus":200}`, 200), 0},
		{"empty translation", NewMockDoer(`{"responseData":{"translatedText":""},"responseStatus":200}`, 200), 0},
		{"network", NewMockDoerWithError(errors.New("dial tcp: refused")), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(t, tt.doer)
			got, err := tr.Translate(context.Background(), "hello", models.English, models.Swahili)
			if err == nil {
				t.Fatalf("expected error, got %q", got)
			}
			if !apierrors.IsTranslationError(err) {
				t.Errorf("expected TranslationError, got %T", err)
			}
			if got != "" {
				t.Errorf("expected empty result on failure, got %q", got)
			}
			if tt.status != 0 && apierrors.GetHTTPStatus(err) != tt.status {
				t.Errorf("status = %d, want %d", apierrors.GetHTTPStatus(err), tt.status)
			}
		})
	}
}

func TestTranslator_RateLimit(t *testing.T) {
	doer := NewMockDoer(`{"responseData":{"translatedText":"x"},"responseStatus":200}`, 200)
	tr := newTestTranslator(t, doer, WithRateLimit(1))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := tr.Translate(ctx, "one", models.English, models.Swahili); err != nil {
		t.Fatalf("first call should pass the burst: %v", err)
	}
	_, err := tr.Translate(ctx, "two", models.English, models.Swahili)
	if err == nil {
		t.Fatal("second call should exceed the limiter deadline")
	}
	if doer.Calls() != 1 {
		t.Errorf("calls = %d, want 1", doer.Calls())
	}
}

func TestTranslator_ContextPropagated(t *testing.T) {
	doer := &MockDoer{
		Respond: func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		},
	}
	tr := newTestTranslator(t, doer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Translate(ctx, "hello", models.English, models.Swahili)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

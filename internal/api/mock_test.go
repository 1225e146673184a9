package api

import (
	"bytes"
	"io"
	"sync"

	http "github.com/bogdanfinn/fhttp"
)

// MockDoer is a fake transport that records requests and returns canned responses
type MockDoer struct {
	mu       sync.Mutex
	Requests []*http.Request
	Bodies   []string

	// Respond, when set, builds the response for each request
	Respond func(req *http.Request) (*http.Response, error)

	StatusCode  int
	Body        []byte
	ContentType string
	Err         error
}

// Do implements Doer
func (m *MockDoer) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.Bodies = append(m.Bodies, string(data))
	} else {
		m.Bodies = append(m.Bodies, "")
	}
	m.mu.Unlock()

	if m.Respond != nil {
		return m.Respond(req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return newResponse(m.StatusCode, m.ContentType, m.Body), nil
}

// LastRequest returns the most recent request
func (m *MockDoer) LastRequest() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	return m.Requests[len(m.Requests)-1]
}

// Calls returns the number of requests sent
func (m *MockDoer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// NewMockDoer creates a MockDoer answering every request with body and statusCode
func NewMockDoer(body string, statusCode int) *MockDoer {
	return &MockDoer{
		StatusCode:  statusCode,
		Body:        []byte(body),
		ContentType: "application/json",
	}
}

// NewMockDoerWithError creates a MockDoer that fails every request
func NewMockDoerWithError(err error) *MockDoer {
	return &MockDoer{Err: err}
}

func newResponse(statusCode int, contentType string, body []byte) *http.Response {
	header := make(http.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     header,
	}
}

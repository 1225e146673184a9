package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/alimah/internal/errors"
)

// wsFrame is the JSON envelope exchanged with a WebSocket backend
type wsFrame struct {
	From    string `json:"from"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// WSBackend asks a WebSocket service for assistant replies.
// One request is outstanding at a time; the connection is redialed after a failure.
// Close does not wait for an outstanding request and unblocks its read.
type WSBackend struct {
	endpoint string
	dialer   *websocket.Dialer
	header   http.Header
	timeout  time.Duration
	logger   *slog.Logger

	mu   sync.Mutex // serializes Init and Reply
	conn atomic.Pointer[websocket.Conn]
}

// WSOption is a function that configures the WebSocket backend
type WSOption func(*WSBackend)

// WithWSToken sends a bearer token during the handshake
func WithWSToken(token string) WSOption {
	return func(w *WSBackend) {
		if token != "" {
			w.header.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithWSTimeout bounds a reply round-trip when the context has no deadline
func WithWSTimeout(d time.Duration) WSOption {
	return func(w *WSBackend) {
		w.timeout = d
	}
}

// WithWSLogger sets the logger
func WithWSLogger(logger *slog.Logger) WSOption {
	return func(w *WSBackend) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWSBackend creates a WebSocket reply backend. No connection is made until Init or Reply.
func NewWSBackend(endpoint string, opts ...WSOption) (*WSBackend, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", endpoint, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be ws or wss", endpoint)
	}

	w := &WSBackend{
		endpoint: endpoint,
		dialer:   websocket.DefaultDialer,
		header:   make(http.Header),
		timeout:  30 * time.Second,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// IsWebSocketURL reports whether endpoint selects the WebSocket backend
func IsWebSocketURL(endpoint string) bool {
	lower := strings.ToLower(endpoint)
	return strings.HasPrefix(lower, "ws://") || strings.HasPrefix(lower, "wss://")
}

// Endpoint returns the WebSocket URL
func (w *WSBackend) Endpoint() string {
	return w.endpoint
}

// Init dials the backend
func (w *WSBackend) Init(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.connect(ctx)
	return err
}

// Reply writes the user's message and waits for the next reply frame
func (w *WSBackend) Reply(ctx context.Context, text string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok && w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	conn, err := w.connect(ctx)
	if err != nil {
		return "", err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.SetReadDeadline(deadline)
	}

	if err := conn.WriteJSON(wsFrame{From: "user", Kind: FrameMessage, Content: text}); err != nil {
		w.drop(conn)
		return "", apierrors.NewNetworkError("send message", w.endpoint, err)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			w.drop(conn)
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			return "", apierrors.NewNetworkError("read reply", w.endpoint, err)
		}

		if !gjson.ValidBytes(data) {
			w.logger.Debug("ignoring non-JSON frame", "bytes", len(data))
			continue
		}

		frame := gjson.ParseBytes(data)
		switch frame.Get(PathFrameKind).String() {
		case FrameReply:
			return nonEmpty(frame.Get(PathFrameContent).String())
		case FrameError:
			return "", apierrors.NewAPIError(0, w.endpoint, frame.Get(PathFrameContent).String())
		default:
			w.logger.Debug("ignoring frame", "kind", frame.Get(PathFrameKind).String())
		}
	}
}

// Close closes the connection
func (w *WSBackend) Close() error {
	conn := w.conn.Swap(nil)
	if conn == nil {
		return nil
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return conn.Close()
}

// connect returns the open connection, dialing when needed. Caller holds mu.
func (w *WSBackend) connect(ctx context.Context) (*websocket.Conn, error) {
	if conn := w.conn.Load(); conn != nil {
		return conn, nil
	}

	conn, _, err := w.dialer.DialContext(ctx, w.endpoint, w.header)
	if err != nil {
		return nil, apierrors.NewNetworkError("dial", w.endpoint, err)
	}

	w.logger.Info("connected to backend", "url", w.endpoint)
	w.conn.Store(conn)
	return conn, nil
}

// drop discards a broken connection unless Close already took it
func (w *WSBackend) drop(conn *websocket.Conn) {
	if w.conn.CompareAndSwap(conn, nil) {
		_ = conn.Close()
	}
}

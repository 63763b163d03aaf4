package statusclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/gpiostatus/internal/pinout"
)

// StreamPath is the WebSocket endpoint. Each text message carries one
// request and is answered by one StreamReply.
const StreamPath = APIPath + "/ws"

// StreamReply is the WebSocket answer: a status response or an error.
type StreamReply struct {
	*pinout.Response
	Error string `json:"error,omitempty"`
}

// StreamClient fetches status over a long-lived WebSocket. The connection is
// dialed on first use and re-dialed after any failure. Requests are
// serialized.
type StreamClient struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewStreamClient creates a stream client for the server at baseURL
// ("http://host:port"); the scheme is switched to ws or wss.
func NewStreamClient(baseURL string) *StreamClient {
	return &StreamClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: DefaultTimeout,
		dialer:  &websocket.Dialer{HandshakeTimeout: DefaultTimeout},
	}
}

// URL returns the WebSocket endpoint address.
func (c *StreamClient) URL() string {
	u := c.BaseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + StreamPath
}

// Fetch sends one request and waits for its reply.
func (c *StreamClient) Fetch(ctx context.Context, request pinout.Request) (*pinout.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	if err := conn.WriteJSON(request); err != nil {
		c.dropLocked()
		return nil, c.networkError("failed to send request", err)
	}

	var reply StreamReply
	if err := conn.ReadJSON(&reply); err != nil {
		c.dropLocked()
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return nil, c.networkError("server closed the stream", err)
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return nil, NewParseError("failed to parse stream reply", err)
		}
		return nil, c.networkError("failed to read reply", err)
	}

	if reply.Error != "" {
		return nil, NewHTTPError(http.StatusInternalServerError, reply.Error)
	}
	if reply.Response == nil {
		return nil, NewParseError("stream reply is empty", nil)
	}
	if reply.Commands.Available() && (reply.Status == nil || reply.Services == nil) {
		return nil, NewParseError("response is missing status or services", nil)
	}
	return reply.Response, nil
}

func (c *StreamClient) connect(ctx context.Context) (*websocket.Conn, error) {
	if c.conn != nil {
		return c.conn, nil
	}

	header := http.Header{}
	if c.APIKey != "" {
		header.Set(APIKeyHeader, c.APIKey)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.URL(), header)
	if err != nil {
		if resp != nil {
			switch {
			case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
				return nil, NewAuthError(resp.StatusCode, "server rejected the API key")
			case errors.Is(err, websocket.ErrBadHandshake):
				return nil, NewHTTPError(resp.StatusCode, "stream handshake failed")
			}
		}
		return nil, c.networkError("failed to open stream", err)
	}

	c.conn = conn
	return conn, nil
}

func (c *StreamClient) networkError(message string, err error) *StatusError {
	se := NewNetworkError(message, err)
	se.Server = c.BaseURL
	return se
}

func (c *StreamClient) dropLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Close sends a close frame and releases the connection.
func (c *StreamClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}

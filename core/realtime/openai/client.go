// Package openai implements the realtime voice session client over the
// OpenAI realtime websocket protocol.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/songbird-voice/songbird-core/core/realtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
)

const defaultModel = "gpt-realtime"

// transcriptionModel transcribes user audio server-side for caption deltas.
const transcriptionModel = "whisper-1"

type clientOptions struct {
	model      string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*clientOptions)

func WithModel(model string) Option {
	return func(o *clientOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithBaseURL overrides the API host, e.g. for a proxy.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithAPIKey sets the long-lived key used to mint session credentials.
// Defaults to the OPENAI_API_KEY environment variable.
func WithAPIKey(apiKey string) Option {
	return func(o *clientOptions) {
		o.apiKey = apiKey
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		if httpClient != nil {
			o.httpClient = httpClient
		}
	}
}

// Client owns one websocket connection to the realtime model and the session
// lifecycle on top of it. A client can be reconnected after a failure by
// calling Connect again; it never reconnects on its own.
type Client struct {
	options clientOptions

	conn   *websocket.Conn
	connMu sync.Mutex

	mu             sync.Mutex
	phase          realtime.Phase
	sessionOptions realtime.SessionOptions
	active         chan struct{}
	closeRequested bool
}

func NewClient(opts ...Option) *Client {
	options := clientOptions{
		model:   defaultModel,
		baseURL: "https://api.openai.com",
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   realtime.DefaultConnectTimeout,
		},
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		options: options,
		phase:   realtime.PhaseDisconnected,
	}
}

func (c *Client) Phase() realtime.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Client) setPhase(phase realtime.Phase) {
	c.mu.Lock()
	c.phase = phase
	c.mu.Unlock()
}

// Connect acquires a session credential, opens the socket, configures the
// session, and blocks until the session is active or the connect timeout
// elapses. Send methods only succeed after Connect returns nil.
func (c *Client) Connect(ctx context.Context, opts ...realtime.SessionOption) error {
	ctx, span := tracer.Start(ctx, "connect realtime session")
	defer span.End()

	options := realtime.SessionOptions{
		TurnDetection:  realtime.TurnDetectionServerVAD,
		ConnectTimeout: realtime.DefaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}

	secret, err := c.fetchClientSecret(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	c.mu.Lock()
	c.sessionOptions = options
	c.phase = realtime.PhaseConnecting
	c.active = make(chan struct{})
	c.closeRequested = false
	active := c.active
	c.mu.Unlock()

	scheme, host := socketAddress(c.options.baseURL)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx,
		(&url.URL{
			Scheme:   scheme,
			Host:     host,
			Path:     "/v1/realtime",
			RawQuery: url.Values{"model": {c.options.model}}.Encode(),
		}).String(),
		http.Header{"Authorization": {"Bearer " + secret}})
	if err != nil {
		c.setPhase(realtime.PhaseError)
		err = fmt.Errorf("failed to open realtime socket: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	go c.readAndProcessMessages(conn)

	select {
	case <-active:
		return nil
	case <-time.After(options.ConnectTimeout):
		c.setPhase(realtime.PhaseError)
		c.closeConn()
		span.RecordError(ErrConnectionTimeout)
		span.SetStatus(codes.Error, ErrConnectionTimeout.Error())
		return ErrConnectionTimeout
	case <-ctx.Done():
		c.setPhase(realtime.PhaseError)
		c.closeConn()
		return ctx.Err()
	}
}

// Close tears down the socket. Safe to call from any goroutine and
// idempotent: closing a closed client is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closeRequested {
		c.mu.Unlock()
		return nil
	}
	c.closeRequested = true
	c.phase = realtime.PhaseDisconnected
	c.mu.Unlock()

	return c.closeConn()
}

func (c *Client) closeConn() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close realtime socket: %w", err)
	}
	return nil
}

// socketAddress maps the HTTP base URL onto the websocket endpoint. Plain
// http (local proxies, tests) maps to ws, everything else stays wss.
func socketAddress(baseURL string) (scheme, host string) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return "wss", baseURL
	}
	if parsed.Scheme == "http" {
		return "ws", parsed.Host
	}
	return "wss", parsed.Host
}

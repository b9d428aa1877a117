package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	neturl "net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/proxy"
)

const (
	// DefaultIdleTimeout is the wall-clock deadline, started at connect,
	// after which the engine half-closes the connection
	DefaultIdleTimeout = 3 * time.Second
	// DefaultCloseTimeout bounds the wait for the peer to close after our half-close
	DefaultCloseTimeout = 1 * time.Second
	// DefaultDialTimeout bounds DNS resolution plus TCP connect
	DefaultDialTimeout = 10 * time.Second

	readChunkSize = 4096
)

// Dialer opens the TCP connection for a transaction
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Client executes HTTP/1.0 transactions, one connection per request
type Client struct {
	idleTimeout  time.Duration
	closeTimeout time.Duration
	dialTimeout  time.Duration
	proxyURL     string
	dialer       Dialer
	logger       zerolog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// NewClient creates a client with the default timeouts and a direct dialer
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		idleTimeout:  DefaultIdleTimeout,
		closeTimeout: DefaultCloseTimeout,
		dialTimeout:  DefaultDialTimeout,
		logger:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.dialer == nil {
		c.dialer = c.buildDialer()
	}

	return c
}

func (c *Client) buildDialer() Dialer {
	direct := &net.Dialer{Timeout: c.dialTimeout}
	if c.proxyURL == "" {
		return direct
	}

	d, err := proxyDialer(c.proxyURL, direct)
	if err != nil {
		c.logger.Warn().Err(err).Str("proxy", c.proxyURL).Msg("unusable proxy, transactions will fail")
		return failingDialer{err: err}
	}
	return d
}

// ValidateProxy reports whether raw is a proxy URL the client can dial
// through. An empty value means no proxy.
func ValidateProxy(raw string) error {
	if raw == "" {
		return nil
	}
	_, err := proxyDialer(raw, proxy.Direct)
	return err
}

func proxyDialer(raw string, forward proxy.Dialer) (Dialer, error) {
	u, err := neturl.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %q: %w", raw, err)
	}

	d, err := proxy.FromURL(u, forward)
	if err != nil {
		return nil, fmt.Errorf("unsupported proxy %q: %w", raw, err)
	}

	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd, nil
	}
	return contextlessDialer{d}, nil
}

// failingDialer replaces an unusable proxy; every dial returns err
type failingDialer struct {
	err error
}

func (d failingDialer) DialContext(context.Context, string, string) (net.Conn, error) {
	return nil, d.err
}

type contextlessDialer struct {
	proxy.Dialer
}

func (d contextlessDialer) DialContext(_ context.Context, network, address string) (net.Conn, error) {
	return d.Dial(network, address)
}

// WithIdleTimeout sets the deadline after which the request side is closed
func WithIdleTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}

// WithCloseTimeout sets how long to wait for the peer after the half-close
func WithCloseTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.closeTimeout = d
		}
	}
}

// WithDialTimeout bounds DNS resolution plus connect
func WithDialTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.dialTimeout = d
		}
	}
}

// WithProxy routes connections through a SOCKS5 proxy (socks5://host:port)
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithDialer replaces the default TCP dialer
func WithDialer(d Dialer) ClientOption {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithLogger sets the logger for transaction state transitions
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

func (c *Client) IdleTimeout() time.Duration {
	return c.idleTimeout
}

// Execute runs one transaction: connect, send, accumulate until the peer
// closes or the idle deadline forces a half-close, then resolve exactly once.
// Bytes received before a failure are not returned.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	u, err := ParseURL(req.URL)
	if err != nil {
		return nil, &TransactionError{Kind: ErrorURL, Err: err}
	}

	tx := &transaction{
		id:      uuid.NewString(),
		client:  c,
		addr:    u.Address(),
		payload: BuildRequest(req.Method, u, req.Headers, req.Body),
	}
	tx.logger = c.logger.With().
		Str("tx", tx.id).
		Str("method", string(req.Method)).
		Str("addr", tx.addr).
		Logger()

	return tx.run(ctx)
}

// Get sends a GET transaction
func (c *Client) Get(ctx context.Context, url string, headers []string) (*Response, error) {
	return c.Execute(ctx, &Request{
		Method:  MethodGet,
		URL:     url,
		Headers: headers,
	})
}

// Post sends a POST transaction with body
func (c *Client) Post(ctx context.Context, url, body string, headers []string) (*Response, error) {
	return c.Execute(ctx, &Request{
		Method:  MethodPost,
		URL:     url,
		Headers: headers,
		Body:    body,
	})
}

// State is a step of the transaction lifecycle
type State int

const (
	StateConnecting State = iota
	StateStreaming
	StateTimeoutCountdown
	StateClosing
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateTimeoutCountdown:
		return "timeout-countdown"
	case StateClosing:
		return "closing"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

type transaction struct {
	id      string
	client  *Client
	addr    string
	payload []byte
	state   State
	buf     bytes.Buffer
	logger  zerolog.Logger
}

func (tx *transaction) transition(s State) {
	tx.state = s
	tx.logger.Debug().
		Stringer("state", s).
		Int("bytes", tx.buf.Len()).
		Msg("transaction state")
}

func (tx *transaction) run(ctx context.Context) (*Response, error) {
	tx.transition(StateConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, tx.client.dialTimeout)
	conn, err := tx.client.dialer.DialContext(dialCtx, "tcp", tx.addr)
	cancel()
	if err != nil {
		return tx.fail(classifyDialError(tx.addr, err))
	}
	defer conn.Close()

	start := time.Now()
	deadline := time.NewTimer(tx.client.idleTimeout)
	defer deadline.Stop()

	if _, err := conn.Write(tx.payload); err != nil {
		return tx.fail(&TransactionError{Kind: ErrorWrite, Addr: tx.addr, Err: err})
	}
	tx.transition(StateStreaming)

	done := make(chan struct{})
	defer close(done)
	chunks := make(chan []byte)
	readErr := make(chan error, 1)
	go readLoop(conn, chunks, readErr, done)

	tx.transition(StateTimeoutCountdown)

	var (
		grace    *time.Timer
		graceC   <-chan time.Time
		timedOut bool
	)
	defer func() {
		if grace != nil {
			grace.Stop()
		}
	}()

	for {
		select {
		case chunk := <-chunks:
			tx.buf.Write(chunk)

		case err := <-readErr:
			if errors.Is(err, io.EOF) || (timedOut && errors.Is(err, net.ErrClosed)) {
				return tx.succeed(start, timedOut)
			}
			return tx.fail(&TransactionError{Kind: ErrorRead, Addr: tx.addr, Err: err})

		case <-deadline.C:
			timedOut = true
			tx.transition(StateClosing)
			if err := halfClose(conn); err != nil {
				return tx.fail(&TransactionError{Kind: ErrorClose, Addr: tx.addr, Err: err})
			}
			grace = time.NewTimer(tx.client.closeTimeout)
			graceC = grace.C

		case <-graceC:
			tx.logger.Debug().Msg("peer did not close after half-close")
			return tx.succeed(start, timedOut)

		case <-ctx.Done():
			return tx.fail(&TransactionError{Kind: ErrorCanceled, Addr: tx.addr, Err: ctx.Err()})
		}
	}
}

func (tx *transaction) succeed(start time.Time, timedOut bool) (*Response, error) {
	tx.transition(StateTerminal)
	resp := &Response{
		ID:       tx.id,
		Raw:      bytes.Clone(tx.buf.Bytes()),
		Duration: time.Since(start),
		TimedOut: timedOut,
	}
	tx.logger.Debug().
		Int("bytes", resp.Size()).
		Dur("duration", resp.Duration).
		Bool("timed_out", timedOut).
		Msg("transaction complete")
	return resp, nil
}

func (tx *transaction) fail(err *TransactionError) (*Response, error) {
	tx.transition(StateTerminal)
	tx.logger.Debug().Err(err).Msg("transaction failed")
	return nil, err
}

// readLoop forwards every chunk in arrival order, then the terminating error
func readLoop(conn net.Conn, chunks chan<- []byte, readErr chan<- error, done <-chan struct{}) {
	buf := make([]byte, readChunkSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case chunks <- chunk:
			case <-done:
				return
			}
		}
		if err != nil {
			readErr <- err
			return
		}
	}
}

type closeWriter interface {
	CloseWrite() error
}

func halfClose(conn net.Conn) error {
	if cw, ok := conn.(closeWriter); ok {
		return cw.CloseWrite()
	}
	return conn.Close()
}

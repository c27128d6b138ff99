// Package frr talks to the ospf6d routing daemon over its vty socket and
// parses what it says.
//
// The package is stateless apart from the Client's cached running
// configuration. Parsers return daemon vocabulary (state names, interface
// names, dotted IDs as uint32); mapping to the public enums happens in the
// ospf6 package.
package frr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/golangsnmp/ospf6/internal/types"
)

// DefaultSocket is the vty socket ospf6d listens on.
const DefaultSocket = "/var/run/frr/ospf6d.vty"

// DefaultRunningConfigTTL is how long a fetched running configuration is
// reused before it is read again.
const DefaultRunningConfigTTL = 30 * time.Second

// ErrUnavailable is returned when the daemon socket cannot be reached.
var ErrUnavailable = errors.New("routing daemon unavailable")

// CommandError reports a vty command that completed with a non-zero status.
type CommandError struct {
	Cmd    string
	Status byte
	Output string
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("vty %q: status %d", e.Cmd, e.Status)
	}
	return fmt.Sprintf("vty %q: status %d: %s", e.Cmd, e.Status, out)
}

// Option configures a Client.
type Option func(*Client)

// WithSocket sets the vty socket path.
func WithSocket(path string) Option {
	return func(c *Client) { c.socket = path }
}

// WithRunningConfigTTL sets how long RunningConfig reuses its last read.
// Zero disables reuse.
func WithRunningConfigTTL(d time.Duration) Option {
	return func(c *Client) { c.ttl = d }
}

// WithRateLimit limits how often command batches are sent to the daemon.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

// WithTimeout bounds one command batch when the context has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger for debug/trace output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.log = types.Logger{L: logger} }
}

// Client sends command batches to one daemon. Each batch runs on its own
// connection, starting with "enable".
type Client struct {
	socket  string
	ttl     time.Duration
	timeout time.Duration
	limiter *rate.Limiter
	log     types.Logger
	now     func() time.Time
	dialer  net.Dialer

	mu    sync.Mutex
	rc    string
	rcAt  time.Time
	rcSet bool
}

// New returns a client for the daemon. It does not connect.
func New(opts ...Option) *Client {
	c := &Client{
		socket:  DefaultSocket,
		ttl:     DefaultRunningConfigTTL,
		timeout: 10 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Socket returns the vty socket path.
func (c *Client) Socket() string { return c.socket }

// Ping checks that the daemon answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Exec(ctx)
	return err
}

// Exec runs cmds in order on a fresh session and returns their
// concatenated output. A batch containing "configure terminal" drops the
// cached running configuration.
func (c *Client) Exec(ctx context.Context, cmds ...string) (string, error) {
	for _, cmd := range cmds {
		if strings.Contains(cmd, "configure terminal") {
			c.log.Debug("dropping cached running config")
			c.DropRunningConfig()
			break
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	conn, err := c.dialer.DialContext(ctx, "unix", c.socket)
	if err != nil {
		c.log.Warn("vty connect failed",
			slog.String("socket", c.socket),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	} else if c.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(c.timeout))
	}

	if _, err := c.command(conn, "enable"); err != nil {
		return "", err
	}

	var out strings.Builder
	for _, cmd := range cmds {
		reply, err := c.command(conn, cmd)
		if err != nil {
			return out.String(), err
		}
		out.WriteString(reply)
	}
	return out.String(), nil
}

// Show runs a single show command and returns its output.
func (c *Client) Show(ctx context.Context, cmd string) ([]byte, error) {
	out, err := c.Exec(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Configure runs lines in configuration mode.
func (c *Client) Configure(ctx context.Context, lines ...string) error {
	_, err := c.Exec(ctx, append([]string{"configure terminal"}, lines...)...)
	return err
}

// RunningConfig returns the daemon's running configuration, reusing the
// last read while it is younger than the TTL.
func (c *Client) RunningConfig(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.rcSet && c.now().Sub(c.rcAt) <= c.ttl {
		rc := c.rc
		c.mu.Unlock()
		return rc, nil
	}
	c.mu.Unlock()

	c.log.Debug("running config out of date, reading")
	rc, err := c.Exec(ctx, "show running-config")
	if err != nil {
		c.DropRunningConfig()
		return "", err
	}

	c.mu.Lock()
	c.rc, c.rcAt, c.rcSet = rc, c.now(), true
	c.mu.Unlock()
	return rc, nil
}

// DropRunningConfig forgets the cached running configuration.
func (c *Client) DropRunningConfig() {
	c.mu.Lock()
	c.rc, c.rcSet = "", false
	c.mu.Unlock()
}

// command sends one NUL-terminated command and reads the reply, which ends
// with three NUL bytes and a status byte.
func (c *Client) command(conn net.Conn, cmd string) (string, error) {
	if c.log.TraceEnabled() {
		c.log.Trace("vty command", slog.String("cmd", cmd))
	}
	if _, err := conn.Write(append([]byte(cmd), 0)); err != nil {
		return "", fmt.Errorf("vty %q: write: %w", cmd, err)
	}

	var reply bytes.Buffer
	buf := make([]byte, 4096)
	for !endOfMessage(reply.Bytes()) {
		n, err := conn.Read(buf)
		reply.Write(buf[:n])
		if err != nil && !endOfMessage(reply.Bytes()) {
			return "", fmt.Errorf("vty %q: read: %w", cmd, err)
		}
	}

	b := reply.Bytes()
	status := b[len(b)-1]
	out := string(b[:len(b)-4])
	if status != 0 {
		return out, &CommandError{Cmd: cmd, Status: status, Output: out}
	}
	return out, nil
}

func endOfMessage(b []byte) bool {
	n := len(b)
	return n >= 4 && b[n-4] == 0 && b[n-3] == 0 && b[n-2] == 0
}

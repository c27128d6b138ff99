package testutil

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// Daemon is a scripted vty server. It answers each NUL-terminated command
// with the configured reply followed by the vty end-of-message marker, and
// records every command it receives.
type Daemon struct {
	Path string

	ln net.Listener
	wg sync.WaitGroup

	mu       sync.Mutex
	replies  map[string]string
	statuses map[string]byte
	counts   map[string]int
	received []string
	handler  func(cmd string) (string, byte, bool)
}

// NewDaemon starts a Daemon on a fresh unix socket and stops it when the
// test ends.
func NewDaemon(t testing.TB) *Daemon {
	t.Helper()
	dir, err := os.MkdirTemp("", "vty")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	path := filepath.Join(dir, "ospf6d.vty")
	ln, err := net.Listen("unix", path)
	if err != nil {
		_ = os.RemoveAll(dir)
		t.Fatalf("listen %s: %v", path, err)
	}

	d := &Daemon{
		Path:     path,
		ln:       ln,
		replies:  make(map[string]string),
		statuses: make(map[string]byte),
		counts:   make(map[string]int),
	}
	d.wg.Add(1)
	go d.serve()

	t.Cleanup(func() {
		_ = ln.Close()
		d.wg.Wait()
		_ = os.RemoveAll(dir)
	})
	return d
}

// Reply sets the output for cmd.
func (d *Daemon) Reply(cmd, out string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replies[cmd] = out
	delete(d.statuses, cmd)
}

// Fail makes cmd complete with a non-zero status.
func (d *Daemon) Fail(cmd string, status byte, out string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replies[cmd] = out
	d.statuses[cmd] = status
}

// Handle installs a function consulted before the scripted replies. It
// returns handled=false to fall through.
func (d *Daemon) Handle(fn func(cmd string) (out string, status byte, handled bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = fn
}

// Count returns how many times cmd was received.
func (d *Daemon) Count(cmd string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[cmd]
}

// Commands returns every command received except "enable", in order.
func (d *Daemon) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var res []string
	for _, c := range d.received {
		if c != "enable" {
			res = append(res, c)
		}
	}
	return res
}

// Reset forgets received commands and counts.
func (d *Daemon) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.received = nil
	clear(d.counts)
}

func (d *Daemon) serve() {
	defer d.wg.Done()
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			defer conn.Close()
			d.session(conn)
		}()
	}
}

func (d *Daemon) session(conn net.Conn) {
	r := bufio.NewReader(conn)
	for {
		raw, err := r.ReadString(0)
		if err != nil {
			return
		}
		cmd := strings.TrimSuffix(raw, "\x00")
		out, status := d.answer(cmd)
		msg := append([]byte(out), 0, 0, 0, status)
		if _, err := conn.Write(msg); err != nil {
			return
		}
	}
}

func (d *Daemon) answer(cmd string) (string, byte) {
	d.mu.Lock()
	d.received = append(d.received, cmd)
	d.counts[cmd]++
	h := d.handler
	d.mu.Unlock()

	if h != nil {
		if out, status, ok := h(cmd); ok {
			return out, status
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.replies[cmd], d.statuses[cmd]
}

// Package ospf6 manages the configuration and status of an OSPFv3 routing
// process run by an external routing daemon.
//
// A Manager owns the connection to the daemon, the set of enabled
// instances and the fetch caches used while walking status tables. Every
// exported method takes the Manager's guard for its whole duration, so
// concurrent callers are serialized and each call starts from empty caches.
//
// Table walks use GetNext semantics: pass nil keys to get the first row,
// or the previous row's keys to get the one after it.
//
//	m, err := ospf6.Open(ctx, ospf6.WithSocket("/var/run/frr/ospf6d.vty"))
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	var id *ospf6.InstanceID
//	var nip *netip.Addr
//	var ifx *ospf6.IfIndex
//	for {
//	    k, ok, err := m.NeighborNext(ctx, id, nip, ifx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    id, nip, ifx = &k.ID, &k.Addr, &k.IfIndex
//	}
package ospf6

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/time/rate"

	"github.com/golangsnmp/ospf6/getnext"
	"github.com/golangsnmp/ospf6/internal/frr"
	"github.com/golangsnmp/ospf6/internal/store"
	"github.com/golangsnmp/ospf6/internal/types"
	"github.com/golangsnmp/ospf6/snmp"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (level queries, vty commands).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Option configures Open.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	storePath   string
	instanceMax InstanceID
	mibRoot     snmp.Oid
	frr         []frr.Option
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
		c.frr = append(c.frr, frr.WithLogger(logger))
	}
}

// WithStore enables SaveConfig and RestoreConfig using the bbolt file at
// path.
func WithStore(path string) Option {
	return func(c *config) { c.storePath = path }
}

// WithInstanceMax sets the highest valid instance ID.
func WithInstanceMax(n InstanceID) Option {
	return func(c *config) { c.instanceMax = n }
}

// WithMIBRoot sets the OID under which SNMPNext and SNMPGet lay out the
// OSPF6 tables. The default is DefaultMIBRoot.
func WithMIBRoot(root snmp.Oid) Option {
	return func(c *config) { c.mibRoot = root }
}

// WithSocket sets the daemon's vty socket path.
func WithSocket(path string) Option {
	return func(c *config) { c.frr = append(c.frr, frr.WithSocket(path)) }
}

// WithRunningConfigTTL sets how long the daemon's running configuration is
// reused before it is read again.
func WithRunningConfigTTL(d time.Duration) Option {
	return func(c *config) { c.frr = append(c.frr, frr.WithRunningConfigTTL(d)) }
}

// WithRateLimit limits how often vty sessions are opened.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *config) { c.frr = append(c.frr, frr.WithRateLimit(limit, burst)) }
}

// WithTimeout bounds each vty session when the context has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.frr = append(c.frr, frr.WithTimeout(d)) }
}

// Manager is the owned context for all OSPF6 operations.
type Manager struct {
	guard       getnext.Guard
	log         types.Logger
	logger      *slog.Logger
	client      *frr.Client
	store       *store.Store
	instanceMax InstanceID
	mibRoot     snmp.Oid

	// enabled holds the IDs of created instances.
	enabled *roaring.Bitmap

	status     *getnext.Cache[frr.RouterStatus]
	interfaces *getnext.Cache[map[uint32]frr.Interface]
	neighbors  *getnext.Cache[[]frr.Neighbor]
	routes     *getnext.Cache[[]routeEntry]
	database   *getnext.Cache[[]dbEntry]
	running    *getnext.Cache[*frr.RunningConfig]
}

// Open creates a Manager and learns which instances already exist from the
// daemon's running configuration.
func Open(ctx context.Context, opts ...Option) (*Manager, error) {
	cfg := config{instanceMax: DefaultInstanceMax, mibRoot: DefaultMIBRoot}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.instanceMax < 1 {
		return nil, invalid("instance max %d", cfg.instanceMax)
	}

	m := &Manager{
		log:         types.Logger{L: cfg.logger},
		logger:      cfg.logger,
		client:      frr.New(cfg.frr...),
		instanceMax: cfg.instanceMax,
		mibRoot:     cfg.mibRoot,
		enabled:     roaring.New(),
	}
	m.initCaches()

	if cfg.storePath != "" {
		s, err := store.Open(cfg.storePath)
		if err != nil {
			return nil, err
		}
		m.store = s
	}

	unlock := m.lock()
	err := m.syncInstances(ctx)
	unlock()
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

// Close releases the startup configuration store. The daemon is left
// running.
func (m *Manager) Close() error {
	if m.store != nil {
		err := m.store.Close()
		m.store = nil
		return err
	}
	return nil
}

func (m *Manager) initCaches() {
	g := &m.guard
	m.status = getnext.NewCache(g, func(ctx context.Context) (frr.RouterStatus, error) {
		data, err := m.client.Show(ctx, frr.CmdStatus)
		if err != nil {
			return frr.RouterStatus{}, m.fetchFailed(frr.CmdStatus, err)
		}
		st, err := frr.ParseStatus(data)
		return st, m.fetchFailed(frr.CmdStatus, err)
	})
	m.interfaces = getnext.NewCache(g, func(ctx context.Context) (map[uint32]frr.Interface, error) {
		data, err := m.client.Show(ctx, frr.CmdInterfaces)
		if err != nil {
			return nil, m.fetchFailed(frr.CmdInterfaces, err)
		}
		res, err := frr.ParseInterfaces(data)
		return res, m.fetchFailed(frr.CmdInterfaces, err)
	})
	m.neighbors = getnext.NewCache(g, func(ctx context.Context) ([]frr.Neighbor, error) {
		data, err := m.client.Show(ctx, frr.CmdNeighbors)
		if err != nil {
			return nil, m.fetchFailed(frr.CmdNeighbors, err)
		}
		res, err := frr.ParseNeighbors(data)
		return res, m.fetchFailed(frr.CmdNeighbors, err)
	})
	m.routes = getnext.NewCache(g, m.fetchRoutes)
	m.database = getnext.NewCache(g, m.fetchDatabase)
	m.running = getnext.NewCache(g, func(ctx context.Context) (*frr.RunningConfig, error) {
		text, err := m.client.RunningConfig(ctx)
		if err != nil {
			return nil, m.fetchFailed("show running-config", err)
		}
		return frr.ParseRunningConfig(text), nil
	})
}

// lock acquires the guard. The returned function empties every cache and
// releases it.
func (m *Manager) lock() (unlock func()) {
	m.guard.Lock()
	return func() {
		m.invalidate()
		m.guard.Unlock()
	}
}

func (m *Manager) invalidate() {
	m.guard.AssertHeld()
	m.status.Invalidate()
	m.interfaces.Invalidate()
	m.neighbors.Invalidate()
	m.routes.Invalidate()
	m.database.Invalidate()
	m.running.Invalidate()
}

func (m *Manager) fetchFailed(op string, err error) error {
	if err == nil {
		return nil
	}
	m.log.Debug("daemon fetch failed", slog.String("op", op), slog.String("error", err.Error()))
	return access(op, err)
}

// configure sends configuration lines to the daemon.
func (m *Manager) configure(ctx context.Context, lines ...string) error {
	m.guard.AssertHeld()
	if err := m.client.Configure(ctx, lines...); err != nil {
		return m.fetchFailed("configure", err)
	}
	m.running.Invalidate()
	return nil
}

func (m *Manager) runningConfig(ctx context.Context) (*frr.RunningConfig, error) {
	m.guard.AssertHeld()
	return m.running.Result(ctx)
}

// syncInstances enables instance 1 when the daemon already runs an OSPF6
// process. One daemon process serves every instance ID.
func (m *Manager) syncInstances(ctx context.Context) error {
	m.guard.AssertHeld()
	rc, err := m.runningConfig(ctx)
	if err != nil {
		return err
	}
	m.enabled.Clear()
	if rc.Router.Present {
		m.enabled.Add(1)
	}
	m.log.Debug("instances synced", slog.Uint64("count", m.enabled.GetCardinality()))
	return nil
}

func (m *Manager) exists(id InstanceID) bool {
	m.guard.AssertHeld()
	return id >= 1 && id <= m.instanceMax && m.enabled.Contains(uint32(id))
}

// checkInstance validates id before any daemon access.
func (m *Manager) checkInstance(id InstanceID) error {
	if id < 1 || id > m.instanceMax {
		return invalid("instance %d out of range 1..%d", id, m.instanceMax)
	}
	if !m.exists(id) {
		return fmt.Errorf("%w: %d", ErrInstanceNotExist, id)
	}
	return nil
}

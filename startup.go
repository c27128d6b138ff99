package ospf6

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/netip"
	"slices"
	"time"

	"github.com/golangsnmp/ospf6/internal/frr"
	"github.com/golangsnmp/ospf6/internal/store"
)

// SaveConfig writes the current configuration of every instance to the
// startup store. The previously saved configuration is kept as history.
func (m *Manager) SaveConfig(ctx context.Context) error {
	defer m.lock()()

	if m.store == nil {
		return ErrNoStore
	}
	snap, err := m.snapshot(ctx)
	if err != nil {
		return err
	}
	if err := m.store.Save(snap); err != nil {
		return err
	}
	m.log.Debug("startup config saved",
		slog.String("path", m.store.Path()),
		slog.Int("instances", len(snap.Instances)))
	return nil
}

// RestoreConfig replaces the daemon's OSPF6 configuration with the one in
// the startup store. It reports ErrNotFound when nothing was saved.
func (m *Manager) RestoreConfig(ctx context.Context) error {
	defer m.lock()()

	if m.store == nil {
		return ErrNoStore
	}
	snap, ok, err := m.store.Load()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no startup config in %s", ErrNotFound, m.store.Path())
	}
	lines, ids, err := m.replay(ctx, snap)
	if err != nil {
		return err
	}
	if len(lines) > 0 {
		if err := m.configure(ctx, lines...); err != nil {
			return err
		}
	}
	m.enabled.Clear()
	for _, id := range ids {
		m.enabled.Add(uint32(id))
	}
	m.log.Debug("startup config restored",
		slog.String("path", m.store.Path()),
		slog.Time("saved", snap.SavedAt))
	return nil
}

// StartupHistory returns when each retained previous startup configuration
// was saved, newest first.
func (m *Manager) StartupHistory() ([]time.Time, error) {
	defer m.lock()()

	if m.store == nil {
		return nil, ErrNoStore
	}
	snaps, err := m.store.History()
	if err != nil {
		return nil, err
	}
	res := make([]time.Time, len(snaps))
	for i, s := range snaps {
		res[i] = s.SavedAt
	}
	return res, nil
}

// EraseConfig removes the saved startup configuration and its history.
func (m *Manager) EraseConfig() error {
	defer m.lock()()

	if m.store == nil {
		return ErrNoStore
	}
	return m.store.Erase()
}

func (m *Manager) snapshot(ctx context.Context) (store.Snapshot, error) {
	m.guard.AssertHeld()
	rc, err := m.runningConfig(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}

	var snap store.Snapshot
	for id := range m.instances() {
		inst := store.Instance{
			ID:                    uint32(id),
			RouterID:              rc.Router.RouterID,
			RedistributeConnected: rc.Router.RedistributeConnected,
			RedistributeStatic:    rc.Router.RedistributeStatic,
			Distance:              rc.Router.Distance,
		}
		for _, r := range rc.Ranges {
			inst.Ranges = append(inst.Ranges, store.Range{
				Area:         r.Area,
				Prefix:       r.Prefix.String(),
				NotAdvertise: r.NotAdvertise,
				HasCost:      r.HasCost,
				Cost:         r.Cost,
			})
		}
		for _, s := range rc.Stubs {
			inst.Stubs = append(inst.Stubs, store.Stub{Area: s.Area, NoSummary: s.NoSummary})
		}
		for _, b := range rc.InterfaceAreas {
			inst.Bindings = append(inst.Bindings, store.Binding{IfIndex: b.IfIndex, Area: b.Area})
		}
		snap.Instances = append(snap.Instances, inst)
	}

	for _, ifx := range slices.Sorted(maps.Keys(rc.Interfaces)) {
		c := rc.Interfaces[ifx]
		snap.Interfaces = append(snap.Interfaces, store.Interface{
			IfIndex:       ifx,
			Priority:      c.Priority,
			Cost:          c.Cost,
			MTUIgnore:     c.MTUIgnore,
			Dead:          c.Dead,
			Hello:         c.Hello,
			Retransmit:    c.Retransmit,
			TransmitDelay: c.TransmitDelay,
			Passive:       c.Passive,
		})
	}
	return snap, nil
}

// replay builds the configuration batch that moves the daemon from its
// running configuration to snap. The existing OSPF6 process is removed
// first so stale ranges, stubs and bindings do not survive.
func (m *Manager) replay(ctx context.Context, snap store.Snapshot) ([]string, []InstanceID, error) {
	m.guard.AssertHeld()
	rc, err := m.runningConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	var (
		lines []string
		ids   []InstanceID
	)
	if rc.Router.Present {
		lines = append(lines, frr.NoRouter()...)
	}
	for i, inst := range snap.Instances {
		id := InstanceID(inst.ID)
		if id < 1 || id > m.instanceMax {
			return nil, nil, invalid("saved instance %d out of range 1..%d", id, m.instanceMax)
		}
		ids = append(ids, id)
		// One daemon process serves every instance; the first saved
		// instance carries its configuration.
		if i > 0 {
			continue
		}
		router, err := instanceLines(inst)
		if err != nil {
			return nil, nil, err
		}
		lines = append(lines, frr.Router(router...)...)
	}

	for _, c := range snap.Interfaces {
		name, ok := frr.IfName(c.IfIndex)
		if !ok {
			return nil, nil, invalid("saved interface %d has no name", c.IfIndex)
		}
		conf := frr.InterfaceConf{
			Ifname:        name,
			IfIndex:       c.IfIndex,
			Priority:      c.Priority,
			Cost:          c.Cost,
			MTUIgnore:     c.MTUIgnore,
			Dead:          c.Dead,
			Hello:         c.Hello,
			Retransmit:    c.Retransmit,
			TransmitDelay: c.TransmitDelay,
			Passive:       c.Passive,
		}
		lines = append(lines, frr.InterfaceBlock(name, frr.InterfaceConfLines(conf)...)...)
	}
	return lines, ids, nil
}

func instanceLines(inst store.Instance) ([]string, error) {
	var lines []string
	if inst.RouterID != 0 {
		lines = append(lines, frr.RouterID(inst.RouterID))
	}
	if inst.RedistributeConnected {
		lines = append(lines, frr.Redistribute("connected", true))
	}
	if inst.RedistributeStatic {
		lines = append(lines, frr.Redistribute("static", true))
	}
	if inst.Distance != 0 && inst.Distance != DefaultDistance {
		lines = append(lines, frr.Distance(inst.Distance))
	}
	for _, s := range inst.Stubs {
		lines = append(lines, frr.Stub(frr.StubArea{Area: s.Area, NoSummary: s.NoSummary}))
	}
	for _, r := range inst.Ranges {
		p, err := netip.ParsePrefix(r.Prefix)
		if err != nil {
			return nil, fmt.Errorf("saved range %q: %w", r.Prefix, err)
		}
		lines = append(lines, frr.AreaRangeLine(frr.AreaRange{
			Area:         r.Area,
			Prefix:       p,
			NotAdvertise: r.NotAdvertise,
			HasCost:      r.HasCost,
			Cost:         r.Cost,
		}))
	}
	for _, b := range inst.Bindings {
		name, ok := frr.IfName(b.IfIndex)
		if !ok {
			return nil, invalid("saved binding for interface %d has no name", b.IfIndex)
		}
		lines = append(lines, frr.InterfaceAreaLine(name, b.Area))
	}
	return lines, nil
}

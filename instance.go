package ospf6

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/golangsnmp/ospf6/getnext"
	"github.com/golangsnmp/ospf6/internal/frr"
)

// Capabilities returns the limits of the system. It needs no daemon access.
func (m *Manager) Capabilities() Capabilities {
	return Capabilities{
		InstanceMax:      m.instanceMax,
		RouterIDMin:      RouterIDMin,
		RouterIDMax:      RouterIDMax,
		PriorityMin:      PriorityMin,
		PriorityMax:      PriorityMax,
		GeneralCostMin:   GeneralCostMin,
		GeneralCostMax:   GeneralCostMax,
		InterfaceCostMin: InterfaceCostMin,
		InterfaceCostMax: InterfaceCostMax,
		HelloMin:         HelloMin,
		HelloMax:         HelloMax,
		RetransmitMin:    RetransmitMin,
		RetransmitMax:    RetransmitMax,
		TransmitDelayMin: TransmitDelayMin,
		TransmitDelayMax: TransmitDelayMax,
		DeadMin:          DeadMin,
		DeadMax:          DeadMax,
		DistanceMin:      DistanceMin,
		DistanceMax:      DistanceMax,
	}
}

// Add creates instance id. The daemon process is started with the first
// instance.
func (m *Manager) Add(ctx context.Context, id InstanceID) error {
	defer m.lock()()

	if id < 1 || id > m.instanceMax {
		return invalid("instance %d out of range 1..%d", id, m.instanceMax)
	}
	if m.exists(id) {
		return fmt.Errorf("%w: %d", ErrInstanceExists, id)
	}
	if m.enabled.IsEmpty() {
		if err := m.configure(ctx, frr.Router()...); err != nil {
			return err
		}
	}
	m.enabled.Add(uint32(id))
	m.log.Debug("instance added", slog.Uint64("id", uint64(id)))
	return nil
}

// Del removes instance id. Removing the last instance stops the daemon's
// OSPF6 process and discards its configuration.
func (m *Manager) Del(ctx context.Context, id InstanceID) error {
	defer m.lock()()

	if err := m.checkInstance(id); err != nil {
		return err
	}
	if m.enabled.GetCardinality() == 1 {
		if err := m.configure(ctx, frr.NoRouter()...); err != nil {
			return err
		}
	}
	m.enabled.Remove(uint32(id))
	m.log.Debug("instance deleted", slog.Uint64("id", uint64(id)))
	return nil
}

// Exists reports whether instance id has been created.
func (m *Manager) Exists(id InstanceID) bool {
	defer m.lock()()
	return m.exists(id)
}

// InstanceNext returns the first created instance after cur, or the first
// one when cur is nil.
func (m *Manager) InstanceNext(cur *InstanceID) (InstanceID, bool) {
	defer m.lock()()
	// The instance level reads only the in-memory set and never fails.
	id, ok, _ := getnext.Single(m.instanceLevel).WithLogger(m.logger).Next(cur)
	return id, ok
}

// Reload discards the Manager's view of the daemon and rebuilds the
// instance set from the running configuration.
func (m *Manager) Reload(ctx context.Context) error {
	defer m.lock()()
	m.client.DropRunningConfig()
	m.running.Invalidate()
	return m.syncInstances(ctx)
}

// instanceLevel enumerates created instances in ascending order. It is the
// outermost level of every per-instance table.
func (m *Manager) instanceLevel(cur *InstanceID) (InstanceID, bool, error) {
	m.guard.AssertHeld()
	it := m.enabled.Iterator()
	if cur != nil {
		if *cur >= m.instanceMax {
			return 0, false, nil
		}
		it.AdvanceIfNeeded(uint32(*cur) + 1)
	}
	if !it.HasNext() {
		return 0, false, nil
	}
	v := InstanceID(it.Next())
	if v > m.instanceMax {
		return 0, false, nil
	}
	return v, true, nil
}

// created wraps the level below the instance level so that a key prefix
// naming an instance that does not exist yields no rows there, and the walk
// carries on at the next created instance.
func created[K any](m *Manager, f getnext.Func1[InstanceID, K]) getnext.Func1[InstanceID, K] {
	return func(cur *K, id InstanceID) (K, bool, error) {
		if !m.exists(id) {
			var zero K
			return zero, false, nil
		}
		return f(cur, id)
	}
}

// instances yields the created instances in ascending order.
func (m *Manager) instances() iter.Seq[InstanceID] {
	return func(yield func(InstanceID) bool) {
		m.guard.AssertHeld()
		it := m.enabled.Iterator()
		for it.HasNext() {
			id := InstanceID(it.Next())
			if id > m.instanceMax || !yield(id) {
				return
			}
		}
	}
}

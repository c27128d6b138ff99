package ospf6

import (
	"cmp"
	"context"
	"fmt"

	"github.com/golangsnmp/ospf6/getnext"
	"github.com/golangsnmp/ospf6/internal/frr"
)

// RouterConf returns the router configuration of instance id.
func (m *Manager) RouterConf(ctx context.Context, id InstanceID) (RouterConf, error) {
	defer m.lock()()
	return m.routerConf(ctx, id)
}

func (m *Manager) routerConf(ctx context.Context, id InstanceID) (RouterConf, error) {
	if err := m.checkInstance(id); err != nil {
		return RouterConf{}, err
	}
	rc, err := m.runningConfig(ctx)
	if err != nil {
		return RouterConf{}, err
	}
	d := rc.Router.Distance
	if d == 0 {
		d = DefaultDistance
	}
	return RouterConf{
		RouterID:              ID(rc.Router.RouterID),
		RedistributeConnected: rc.Router.RedistributeConnected,
		RedistributeStatic:    rc.Router.RedistributeStatic,
		Distance:              d,
	}, nil
}

// SetRouterConf applies conf to instance id. Only fields that differ from
// the running configuration are sent to the daemon. A router ID change that
// the running process has not picked up is reported with
// ErrRouterIDChangeNotTakeEffect after everything else was applied.
func (m *Manager) SetRouterConf(ctx context.Context, id InstanceID, conf RouterConf) error {
	defer m.lock()()

	if conf.RouterID != 0 && (conf.RouterID < RouterIDMin || conf.RouterID > RouterIDMax) {
		return fmt.Errorf("%w: %s", ErrInvalidRouterID, conf.RouterID)
	}
	if conf.Distance == 0 {
		conf.Distance = DefaultDistance
	}
	if conf.Distance < DistanceMin {
		return invalid("distance %d", conf.Distance)
	}
	orig, err := m.routerConf(ctx, id)
	if err != nil {
		return err
	}

	var lines []string
	if orig.RouterID != conf.RouterID {
		lines = append(lines, frr.RouterID(uint32(conf.RouterID)))
	}
	if orig.RedistributeConnected != conf.RedistributeConnected {
		lines = append(lines, frr.Redistribute("connected", conf.RedistributeConnected))
	}
	if orig.RedistributeStatic != conf.RedistributeStatic {
		lines = append(lines, frr.Redistribute("static", conf.RedistributeStatic))
	}
	if orig.Distance != conf.Distance {
		lines = append(lines, frr.Distance(conf.Distance))
	}
	if len(lines) == 0 {
		return nil
	}
	if err := m.configure(ctx, frr.Router(lines...)...); err != nil {
		return err
	}

	if orig.RouterID != conf.RouterID && conf.RouterID != 0 {
		st, err := m.status.Result(ctx)
		if err != nil {
			return err
		}
		if ID(st.RouterID) != conf.RouterID {
			return ErrRouterIDChangeNotTakeEffect
		}
	}
	return nil
}

// RouterStatus returns the router status of instance id.
func (m *Manager) RouterStatus(ctx context.Context, id InstanceID) (RouterStatus, error) {
	defer m.lock()()

	if err := m.checkInstance(id); err != nil {
		return RouterStatus{}, err
	}
	st, err := m.status.Result(ctx)
	if err != nil {
		return RouterStatus{}, err
	}
	return RouterStatus{
		RouterID:      ID(st.RouterID),
		SPFDelay:      st.SPFDelay,
		HoldtimeMin:   st.HoldtimeMin,
		HoldtimeMax:   st.HoldtimeMax,
		SPFLastExec:   st.SPFLastExec,
		LSAMinArrival: st.LSAMinArrival,
		AttachedAreas: st.AttachedAreas,
	}, nil
}

// RouterIntfKey identifies a row of the router interface table.
type RouterIntfKey struct {
	ID      InstanceID
	IfIndex IfIndex
}

// RouterIntfConf returns the area binding of a VLAN interface.
func (m *Manager) RouterIntfConf(ctx context.Context, id InstanceID, ifx IfIndex) (RouterIntfConf, error) {
	defer m.lock()()
	return m.routerIntfConf(ctx, id, ifx)
}

func (m *Manager) routerIntfConf(ctx context.Context, id InstanceID, ifx IfIndex) (RouterIntfConf, error) {
	if err := m.checkInstance(id); err != nil {
		return RouterIntfConf{}, err
	}
	if err := checkVLAN(ifx); err != nil {
		return RouterIntfConf{}, err
	}
	rc, err := m.runningConfig(ctx)
	if err != nil {
		return RouterIntfConf{}, err
	}
	for _, b := range rc.InterfaceAreas {
		if IfIndex(b.IfIndex) == ifx {
			return RouterIntfConf{Enabled: true, Area: ID(b.Area)}, nil
		}
	}
	return RouterIntfConf{}, nil
}

// SetRouterIntfConf binds a VLAN interface to an area, moves it to another
// area, or unbinds it when conf.Enabled is false. A move the daemon has not
// applied to the running interface is reported with
// ErrAreaIDChangeNotTakeEffect.
func (m *Manager) SetRouterIntfConf(ctx context.Context, id InstanceID, ifx IfIndex, conf RouterIntfConf) error {
	defer m.lock()()

	orig, err := m.routerIntfConf(ctx, id, ifx)
	if err != nil {
		return err
	}
	name := ifx.String()

	var lines []string
	switch {
	case conf.Enabled && (!orig.Enabled || orig.Area != conf.Area):
		if orig.Enabled {
			lines = append(lines, frr.NoInterfaceArea(name, uint32(orig.Area)))
		}
		lines = append(lines, frr.InterfaceAreaLine(name, uint32(conf.Area)))
	case !conf.Enabled && orig.Enabled:
		lines = append(lines, frr.NoInterfaceArea(name, uint32(orig.Area)))
	default:
		return nil
	}
	if err := m.configure(ctx, frr.Router(lines...)...); err != nil {
		return err
	}

	if conf.Enabled && orig.Enabled {
		intfs, err := m.interfaces.Result(ctx)
		if err != nil {
			return err
		}
		if st, ok := intfs[uint32(ifx)]; ok && st.Up && ID(st.Area) != conf.Area {
			return ErrAreaIDChangeNotTakeEffect
		}
	}
	return nil
}

// RouterIntfConfNext walks the router interface table: every VLAN
// interface the daemon knows about, for every instance. The interface set
// does not depend on the instance, so the levels are independent.
func (m *Manager) RouterIntfConfNext(ctx context.Context, id *InstanceID, ifx *IfIndex) (RouterIntfKey, bool, error) {
	defer m.lock()()

	// Independent levels keep a key prefix as given, so an instance that
	// does not exist is replaced by the next one that does.
	if id != nil && !m.exists(*id) {
		next, ok, _ := m.instanceLevel(id)
		if !ok {
			return RouterIntfKey{}, false, nil
		}
		id, ifx = &next, nil
	}

	w := getnext.Independent2(m.instanceLevel, func(cur *IfIndex) (IfIndex, bool, error) {
		ifxs, err := m.vlanInterfaces(ctx)
		if err != nil {
			return 0, false, err
		}
		v, ok := getnext.After(ifxs, cur, cmp.Compare[IfIndex])
		return v, ok, nil
	}).WithLogger(m.logger)

	r, ok, err := w.Next(id, ifx)
	return RouterIntfKey{ID: r.K1, IfIndex: r.K2}, ok, err
}

func checkVLAN(ifx IfIndex) error {
	if ifx <= IfIndex(frr.VLANIfIndexBase) || ifx > IfIndex(frr.VLANIfIndexBase+frr.VLANMax) {
		return invalid("ifindex %d is not a VLAN interface", uint32(ifx))
	}
	return nil
}

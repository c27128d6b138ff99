package ospf6

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"net/netip"
	"slices"

	"github.com/golangsnmp/ospf6/getnext"
	"github.com/golangsnmp/ospf6/internal/frr"
)

// InterfaceKey identifies a row of the address-indexed interface table.
type InterfaceKey struct {
	Addr    netip.Addr
	IfIndex IfIndex
}

// defaultLinkDownCost is reported for interfaces that are down, since the
// daemon does not compute a cost for them.
const defaultLinkDownCost = 10

// IntfConf returns the OSPF6 configuration of a VLAN interface. Fields that
// are not configured hold the daemon defaults.
func (m *Manager) IntfConf(ctx context.Context, ifx IfIndex) (IntfConf, error) {
	defer m.lock()()
	c, err := m.intfConf(ctx, ifx)
	if err != nil {
		return IntfConf{}, err
	}
	return toIntfConf(c), nil
}

func (m *Manager) intfConf(ctx context.Context, ifx IfIndex) (frr.InterfaceConf, error) {
	if err := checkVLAN(ifx); err != nil {
		return frr.InterfaceConf{}, err
	}
	rc, err := m.runningConfig(ctx)
	if err != nil {
		return frr.InterfaceConf{}, err
	}
	if c, ok := rc.Interfaces[uint32(ifx)]; ok {
		return c, nil
	}
	return frr.DefaultInterfaceConf(ifx.String(), uint32(ifx)), nil
}

// SetIntfConf applies conf to a VLAN interface. Only changed fields are
// sent; fields set back to their default are removed from the running
// configuration.
func (m *Manager) SetIntfConf(ctx context.Context, ifx IfIndex, conf IntfConf) error {
	defer m.lock()()

	if err := checkIntfConf(conf); err != nil {
		return err
	}
	orig, err := m.intfConf(ctx, ifx)
	if err != nil {
		return err
	}
	next := orig
	next.Priority = conf.Priority
	next.Cost = conf.Cost
	next.MTUIgnore = conf.MTUIgnore
	next.Dead = conf.Dead
	next.Hello = conf.Hello
	next.Retransmit = conf.Retransmit
	next.TransmitDelay = conf.TransmitDelay
	next.Passive = conf.Passive
	if next == orig {
		return nil
	}

	all := frr.InterfaceConfLines(next)
	prev := frr.InterfaceConfLines(orig)
	var lines []string
	for i := range all {
		if all[i] != prev[i] {
			lines = append(lines, all[i])
		}
	}
	return m.configure(ctx, frr.InterfaceBlock(orig.Ifname, lines...)...)
}

func checkIntfConf(c IntfConf) error {
	switch {
	case c.Cost != 0 && (c.Cost < InterfaceCostMin || c.Cost > InterfaceCostMax):
		return invalid("cost %d", c.Cost)
	case c.Dead < DeadMin || c.Dead > DeadMax:
		return invalid("dead interval %d", c.Dead)
	case c.Hello < HelloMin || c.Hello > HelloMax:
		return invalid("hello interval %d", c.Hello)
	case c.Retransmit < RetransmitMin || c.Retransmit > RetransmitMax:
		return invalid("retransmit interval %d", c.Retransmit)
	case c.TransmitDelay < TransmitDelayMin || c.TransmitDelay > TransmitDelayMax:
		return invalid("transmit delay %d", c.TransmitDelay)
	}
	return nil
}

func toIntfConf(c frr.InterfaceConf) IntfConf {
	return IntfConf{
		Priority:      c.Priority,
		Cost:          c.Cost,
		MTUIgnore:     c.MTUIgnore,
		Dead:          c.Dead,
		Hello:         c.Hello,
		Retransmit:    c.Retransmit,
		TransmitDelay: c.TransmitDelay,
		Passive:       c.Passive,
	}
}

// IntfConfNext walks the VLAN interfaces known to the daemon.
func (m *Manager) IntfConfNext(ctx context.Context, ifx *IfIndex) (IfIndex, bool, error) {
	defer m.lock()()

	return getnext.Single(func(cur *IfIndex) (IfIndex, bool, error) {
		ifxs, err := m.vlanInterfaces(ctx)
		if err != nil {
			return 0, false, err
		}
		v, ok := getnext.After(ifxs, cur, cmp.Compare[IfIndex])
		return v, ok, nil
	}).WithLogger(m.logger).Next(ifx)
}

// vlanInterfaces returns the ascending indexes of VLAN interfaces that
// appear in the running configuration or in the interface status.
func (m *Manager) vlanInterfaces(ctx context.Context) ([]IfIndex, error) {
	rc, err := m.runningConfig(ctx)
	if err != nil {
		return nil, err
	}
	intfs, err := m.interfaces.Result(ctx)
	if err != nil {
		return nil, err
	}
	var res []IfIndex
	add := func(ifx uint32) {
		if checkVLAN(IfIndex(ifx)) == nil {
			res = append(res, IfIndex(ifx))
		}
	}
	for ifx := range rc.Interfaces {
		add(ifx)
	}
	for _, b := range rc.InterfaceAreas {
		add(b.IfIndex)
	}
	for ifx := range intfs {
		add(ifx)
	}
	slices.Sort(res)
	return slices.Compact(res), nil
}

// InterfaceNext walks the OSPF6 interfaces, virtual links included.
func (m *Manager) InterfaceNext(ctx context.Context, ifx *IfIndex) (IfIndex, bool, error) {
	defer m.lock()()

	return getnext.Single(func(cur *IfIndex) (IfIndex, bool, error) {
		intfs, err := m.interfaces.Result(ctx)
		if err != nil {
			return 0, false, err
		}
		keys := slices.Sorted(maps.Keys(intfs))
		v, ok := getnext.After(keys, (*uint32)(cur), cmp.Compare[uint32])
		return IfIndex(v), ok, nil
	}).WithLogger(m.logger).Next(ifx)
}

// InterfaceNext2 walks the interfaces by (address, ifindex). Virtual links
// report the unspecified address at the first level but never match at the
// second, so an address held only by virtual links yields no rows.
func (m *Manager) InterfaceNext2(ctx context.Context, addr *netip.Addr, ifx *IfIndex) (InterfaceKey, bool, error) {
	defer m.lock()()

	if _, err := m.interfaces.Update(ctx); err != nil {
		return InterfaceKey{}, false, err
	}
	intfs := func() (map[uint32]frr.Interface, error) { return m.interfaces.Result(ctx) }

	w := getnext.Dependent2(
		func(cur *netip.Addr) (netip.Addr, bool, error) {
			all, err := intfs()
			if err != nil {
				return netip.Addr{}, false, err
			}
			v, ok := getnext.Least(func(yield func(netip.Addr) bool) {
				for k, st := range all {
					if !yield(interfaceAddr(k, st)) {
						return
					}
				}
			}, cur, compareAddr)
			return v, ok, nil
		},
		func(cur *IfIndex, a netip.Addr) (IfIndex, bool, error) {
			all, err := intfs()
			if err != nil {
				return 0, false, err
			}
			v, ok := getnext.Least(func(yield func(IfIndex) bool) {
				for k, st := range all {
					if frr.IsVLink(k) || interfaceAddr(k, st) != a {
						continue
					}
					if !yield(IfIndex(k)) {
						return
					}
				}
			}, cur, cmp.Compare[IfIndex])
			return v, ok, nil
		},
	).WithLogger(m.logger)

	r, ok, err := w.Next(addr, ifx)
	return InterfaceKey{Addr: r.K1, IfIndex: r.K2}, ok, err
}

func interfaceAddr(ifx uint32, st frr.Interface) netip.Addr {
	if frr.IsVLink(ifx) || !st.Addr.IsValid() {
		return netip.IPv6Unspecified()
	}
	return st.Addr.Addr()
}

// InterfaceStatus returns the status of one OSPF6 interface.
func (m *Manager) InterfaceStatus(ctx context.Context, ifx IfIndex) (InterfaceStatus, error) {
	defer m.lock()()

	if checkVLAN(ifx) != nil && !ifx.IsVLink() {
		return InterfaceStatus{}, invalid("ifindex %d is neither a VLAN nor a virtual link", uint32(ifx))
	}
	if !m.exists(1) {
		return InterfaceStatus{}, fmt.Errorf("%w: instance 1", ErrNotFound)
	}
	intfs, err := m.interfaces.Result(ctx)
	if err != nil {
		return InterfaceStatus{}, err
	}
	st, ok := intfs[uint32(ifx)]
	if !ok {
		return InterfaceStatus{}, fmt.Errorf("%w: %s", ErrNotFound, ifx)
	}
	return m.interfaceStatus(ctx, ifx, st)
}

// InterfaceStatusAll returns the status of every OSPF6 interface.
// Interfaces whose status cannot be derived are left out.
func (m *Manager) InterfaceStatusAll(ctx context.Context) (map[IfIndex]InterfaceStatus, error) {
	defer m.lock()()

	intfs, err := m.interfaces.Result(ctx)
	if err != nil {
		return nil, err
	}
	res := make(map[IfIndex]InterfaceStatus, len(intfs))
	for k, st := range intfs {
		s, err := m.interfaceStatus(ctx, IfIndex(k), st)
		if err != nil {
			continue
		}
		res[IfIndex(k)] = s
	}
	return res, nil
}

func (m *Manager) interfaceStatus(ctx context.Context, ifx IfIndex, st frr.Interface) (InterfaceStatus, error) {
	m.guard.AssertHeld()
	if !st.Up {
		return m.linkDownStatus(ctx, ifx, st)
	}
	res := InterfaceStatus{
		Up:            true,
		Addr:          st.Addr,
		Area:          ID(st.Area),
		RouterID:      ID(st.RouterID),
		Cost:          st.Cost,
		State:         parseInterfaceState(st.State),
		Priority:      st.Priority,
		DR:            ID(st.DR),
		BDR:           ID(st.BDR),
		Hello:         st.Hello,
		Dead:          st.Dead,
		Retransmit:    st.Retransmit,
		TransmitDelay: st.TransmitDelay,
		VLink:         ifx.IsVLink(),
	}
	if !res.VLink {
		if c, err := m.intfConf(ctx, ifx); err == nil {
			res.Passive = c.Passive
		}
	}
	return res, nil
}

// linkDownStatus fills in what the daemon omits for an interface that is
// down: the area from the interface binding, the router ID from the
// process status and the timers from the interface configuration.
func (m *Manager) linkDownStatus(ctx context.Context, ifx IfIndex, st frr.Interface) (InterfaceStatus, error) {
	res := InterfaceStatus{
		Addr:          st.Addr,
		State:         InterfaceStateDown,
		Cost:          defaultLinkDownCost,
		Priority:      frr.DefaultPriority,
		TransmitDelay: frr.DefaultTransmitDelay,
		Hello:         frr.DefaultHello,
		Dead:          frr.DefaultDead,
		Retransmit:    frr.DefaultRetransmit,
		VLink:         ifx.IsVLink(),
	}
	if !res.VLink {
		bind, err := m.routerIntfConf(ctx, 1, ifx)
		if err != nil {
			return InterfaceStatus{}, err
		}
		if !bind.Enabled {
			return InterfaceStatus{}, fmt.Errorf("%w: %s has no area", ErrNotFound, ifx)
		}
		res.Area = bind.Area

		c, err := m.intfConf(ctx, ifx)
		if err != nil {
			return InterfaceStatus{}, err
		}
		res.Hello, res.Dead, res.Retransmit, res.Passive = c.Hello, c.Dead, c.Retransmit, c.Passive
	} else {
		res.Area = ID(st.Area)
	}

	rs, err := m.status.Result(ctx)
	if err != nil {
		return InterfaceStatus{}, err
	}
	res.RouterID = ID(rs.RouterID)
	return res, nil
}

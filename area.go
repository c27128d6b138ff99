package ospf6

import (
	"cmp"
	"context"
	"fmt"
	"net/netip"
	"slices"

	"github.com/golangsnmp/ospf6/getnext"
	"github.com/golangsnmp/ospf6/internal/frr"
)

// AreaKey identifies a row of a per-area table.
type AreaKey struct {
	ID   InstanceID
	Area ID
}

// AreaRangeKey identifies an area range.
type AreaRangeKey struct {
	ID      InstanceID
	Area    ID
	Network netip.Prefix
}

// AreaStatusNext walks the attached areas of every instance.
func (m *Manager) AreaStatusNext(ctx context.Context, id *InstanceID, area *ID) (AreaKey, bool, error) {
	defer m.lock()()

	r, ok, err := m.areaWalker(ctx).Next(id, area)
	return AreaKey{ID: r.K1, Area: r.K2}, ok, err
}

func (m *Manager) areaWalker(ctx context.Context) *getnext.Walker2[InstanceID, ID] {
	return getnext.Dependent2(m.instanceLevel, created(m, func(cur *ID, _ InstanceID) (ID, bool, error) {
		st, err := m.status.Result(ctx)
		if err != nil {
			return 0, false, err
		}
		v, ok := getnext.Least(keysOf(st.Areas), cur, cmp.Compare[ID])
		return v, ok, nil
	})).WithLogger(m.logger)
}

// AreaStatus returns the status of one attached area.
func (m *Manager) AreaStatus(ctx context.Context, id InstanceID, area ID) (AreaStatus, error) {
	defer m.lock()()

	if err := m.checkInstance(id); err != nil {
		return AreaStatus{}, err
	}
	return m.areaStatus(ctx, area)
}

func (m *Manager) areaStatus(ctx context.Context, area ID) (AreaStatus, error) {
	st, err := m.status.Result(ctx)
	if err != nil {
		return AreaStatus{}, err
	}
	a, ok := st.Areas[uint32(area)]
	if !ok {
		return AreaStatus{}, fmt.Errorf("%w: area %s", ErrNotFound, area)
	}

	res := AreaStatus{
		Backbone:       a.Backbone,
		Type:           AreaNormal,
		InterfaceCount: a.InterfaceCount,
		SPFExecuted:    a.SPFExecuted,
		LSACount:       a.LSACount,
	}
	stub, found, err := m.stubArea(ctx, area)
	switch {
	case err != nil:
		res.Type = AreaTypeUnknown
	case found && stub.NoSummary:
		res.Type = AreaTotallyStub
	case found:
		res.Type = AreaStub
	}
	return res, nil
}

// AreaRangeConf returns the configuration of one area range.
func (m *Manager) AreaRangeConf(ctx context.Context, id InstanceID, area ID, network netip.Prefix) (AreaRangeConf, error) {
	defer m.lock()()

	if err := m.checkInstance(id); err != nil {
		return AreaRangeConf{}, err
	}
	r, found, err := m.areaRange(ctx, area, network, false)
	if err != nil {
		return AreaRangeConf{}, err
	}
	if !found {
		return AreaRangeConf{}, fmt.Errorf("%w: area %s range %s", ErrNotFound, area, network)
	}
	return rangeConf(r), nil
}

// SetAreaRangeConf changes an existing area range.
func (m *Manager) SetAreaRangeConf(ctx context.Context, id InstanceID, area ID, network netip.Prefix, conf AreaRangeConf) error {
	defer m.lock()()

	network, err := m.checkRange(id, network, conf)
	if err != nil {
		return err
	}
	orig, found, err := m.areaRange(ctx, area, network, false)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: area %s range %s", ErrNotFound, area, network)
	}
	if !conf.SpecificCost {
		conf.Cost = 0
	}
	if rangeConf(orig) == conf {
		return nil
	}

	next := rangeLine(area, network, conf)
	var lines []string
	if orig.HasCost && !next.HasCost {
		// Dropping the cost removes the whole range in the daemon.
		lines = append(lines, frr.NoAreaRange(uint32(area), network))
	}
	lines = append(lines, frr.AreaRangeLine(next))
	return m.configure(ctx, frr.Router(lines...)...)
}

// AddAreaRangeConf creates an area range. It must not overlap another
// range of the same area.
func (m *Manager) AddAreaRangeConf(ctx context.Context, id InstanceID, area ID, network netip.Prefix, conf AreaRangeConf) error {
	defer m.lock()()

	network, err := m.checkRange(id, network, conf)
	if err != nil {
		return err
	}
	_, found, err := m.areaRange(ctx, area, network, true)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: area %s range %s", ErrAlreadyExists, area, network)
	}
	return m.configure(ctx, frr.Router(frr.AreaRangeLine(rangeLine(area, network, conf)))...)
}

// DelAreaRangeConf removes an area range.
func (m *Manager) DelAreaRangeConf(ctx context.Context, id InstanceID, area ID, network netip.Prefix) error {
	defer m.lock()()

	if err := m.checkInstance(id); err != nil {
		return err
	}
	network = network.Masked()
	_, found, err := m.areaRange(ctx, area, network, false)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: area %s range %s", ErrNotFound, area, network)
	}
	return m.configure(ctx, frr.Router(frr.NoAreaRange(uint32(area), network))...)
}

// AreaRangeConfNext walks the configured area ranges.
func (m *Manager) AreaRangeConfNext(ctx context.Context, id *InstanceID, area *ID, network *netip.Prefix) (AreaRangeKey, bool, error) {
	defer m.lock()()

	ranges := func() ([]frr.AreaRange, error) {
		rc, err := m.runningConfig(ctx)
		if err != nil {
			return nil, err
		}
		return rc.Ranges, nil
	}
	w := getnext.Dependent3(m.instanceLevel,
		created(m, func(cur *ID, _ InstanceID) (ID, bool, error) {
			rs, err := ranges()
			if err != nil {
				return 0, false, err
			}
			v, ok := getnext.Least(column(rs, nil, func(r frr.AreaRange) ID { return ID(r.Area) }), cur, cmp.Compare[ID])
			return v, ok, nil
		}),
		func(cur *netip.Prefix, _ InstanceID, a ID) (netip.Prefix, bool, error) {
			rs, err := ranges()
			if err != nil {
				return netip.Prefix{}, false, err
			}
			v, ok := getnext.Least(column(rs,
				func(r frr.AreaRange) bool { return ID(r.Area) == a },
				func(r frr.AreaRange) netip.Prefix { return r.Prefix },
			), cur, comparePrefix)
			return v, ok, nil
		},
	).WithLogger(m.logger)

	r, ok, err := w.Next(id, area, network)
	return AreaRangeKey{ID: r.K1, Area: r.K2, Network: r.K3}, ok, err
}

func (m *Manager) checkRange(id InstanceID, network netip.Prefix, conf AreaRangeConf) (netip.Prefix, error) {
	if err := m.checkInstance(id); err != nil {
		return netip.Prefix{}, err
	}
	if !conf.Advertised && conf.SpecificCost {
		return netip.Prefix{}, ErrAreaRangeCostConflict
	}
	if conf.SpecificCost && conf.Cost > GeneralCostMax {
		return netip.Prefix{}, invalid("cost %d", conf.Cost)
	}
	if !network.IsValid() || !network.Addr().Is6() {
		return netip.Prefix{}, invalid("network %s", network)
	}
	network = network.Masked()
	if network.Addr().IsUnspecified() {
		return netip.Prefix{}, ErrAreaRangeNetworkDefault
	}
	return network, nil
}

// areaRange finds the range (area, network). With checkOverlap, a
// different range of the same area that overlaps network is an error.
func (m *Manager) areaRange(ctx context.Context, area ID, network netip.Prefix, checkOverlap bool) (frr.AreaRange, bool, error) {
	rc, err := m.runningConfig(ctx)
	if err != nil {
		return frr.AreaRange{}, false, err
	}
	network = network.Masked()
	for _, r := range rc.Ranges {
		if ID(r.Area) != area {
			continue
		}
		if r.Prefix == network {
			return r, true, nil
		}
		if checkOverlap && r.Prefix.Overlaps(network) {
			return frr.AreaRange{}, false, fmt.Errorf("%w: %s and %s", ErrAreaRangeOverlap, r.Prefix, network)
		}
	}
	return frr.AreaRange{}, false, nil
}

func rangeConf(r frr.AreaRange) AreaRangeConf {
	return AreaRangeConf{
		Advertised:   !r.NotAdvertise,
		SpecificCost: r.HasCost,
		Cost:         r.Cost,
	}
}

func rangeLine(area ID, network netip.Prefix, conf AreaRangeConf) frr.AreaRange {
	r := frr.AreaRange{
		Area:         uint32(area),
		Prefix:       network,
		NotAdvertise: !conf.Advertised,
		HasCost:      conf.SpecificCost,
	}
	if conf.SpecificCost {
		r.Cost = conf.Cost
	}
	return r
}

// StubArea returns the configuration of a stub area.
func (m *Manager) StubArea(ctx context.Context, id InstanceID, area ID) (StubAreaConf, error) {
	defer m.lock()()

	if err := m.checkInstance(id); err != nil {
		return StubAreaConf{}, err
	}
	s, found, err := m.stubArea(ctx, area)
	if err != nil {
		return StubAreaConf{}, err
	}
	if !found {
		return StubAreaConf{}, fmt.Errorf("%w: stub area %s", ErrNotFound, area)
	}
	return StubAreaConf{NoSummary: s.NoSummary}, nil
}

// AddStubArea makes area a stub area. The backbone cannot be a stub.
func (m *Manager) AddStubArea(ctx context.Context, id InstanceID, area ID, conf StubAreaConf) error {
	defer m.lock()()

	if err := m.checkStub(id, area); err != nil {
		return err
	}
	_, found, err := m.stubArea(ctx, area)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: stub area %s", ErrAlreadyExists, area)
	}
	return m.configure(ctx, frr.Router(frr.Stub(frr.StubArea{Area: uint32(area), NoSummary: conf.NoSummary}))...)
}

// SetStubArea changes an existing stub area.
func (m *Manager) SetStubArea(ctx context.Context, id InstanceID, area ID, conf StubAreaConf) error {
	defer m.lock()()

	if err := m.checkStub(id, area); err != nil {
		return err
	}
	s, found, err := m.stubArea(ctx, area)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: stub area %s", ErrNotFound, area)
	}
	if s.NoSummary == conf.NoSummary {
		return nil
	}
	var lines []string
	if s.NoSummary {
		lines = append(lines, "no "+frr.Stub(s))
	}
	lines = append(lines, frr.Stub(frr.StubArea{Area: uint32(area), NoSummary: conf.NoSummary}))
	return m.configure(ctx, frr.Router(lines...)...)
}

// DelStubArea returns a stub area to a normal area.
func (m *Manager) DelStubArea(ctx context.Context, id InstanceID, area ID) error {
	defer m.lock()()

	if err := m.checkInstance(id); err != nil {
		return err
	}
	_, found, err := m.stubArea(ctx, area)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: stub area %s", ErrNotFound, area)
	}
	return m.configure(ctx, frr.Router(frr.NoStub(uint32(area)))...)
}

// StubAreaNext walks the configured stub areas.
func (m *Manager) StubAreaNext(ctx context.Context, id *InstanceID, area *ID) (AreaKey, bool, error) {
	defer m.lock()()

	w := getnext.Dependent2(m.instanceLevel, created(m, func(cur *ID, _ InstanceID) (ID, bool, error) {
		rc, err := m.runningConfig(ctx)
		if err != nil {
			return 0, false, err
		}
		areas := make([]ID, 0, len(rc.Stubs))
		for _, s := range rc.Stubs {
			areas = append(areas, ID(s.Area))
		}
		slices.Sort(areas)
		v, ok := getnext.After(areas, cur, cmp.Compare[ID])
		return v, ok, nil
	})).WithLogger(m.logger)

	r, ok, err := w.Next(id, area)
	return AreaKey{ID: r.K1, Area: r.K2}, ok, err
}

func (m *Manager) checkStub(id InstanceID, area ID) error {
	if err := m.checkInstance(id); err != nil {
		return err
	}
	if area == 0 {
		return ErrStubAreaNotForBackbone
	}
	return nil
}

func (m *Manager) stubArea(ctx context.Context, area ID) (frr.StubArea, bool, error) {
	rc, err := m.runningConfig(ctx)
	if err != nil {
		return frr.StubArea{}, false, err
	}
	for _, s := range rc.Stubs {
		if ID(s.Area) == area {
			return s, true, nil
		}
	}
	return frr.StubArea{}, false, nil
}

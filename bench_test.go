package ospf6

import (
	"context"
	"net/netip"
	"testing"
)

func BenchmarkRouteWalk(b *testing.B) {
	m, _ := newTestManager(b)
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		var (
			id   *InstanceID
			rt   *RouteType
			dest *netip.Prefix
			area *ID
			nh   *netip.Addr
		)
		for {
			k, ok, err := m.RouteNext(ctx, id, rt, dest, area, nh)
			if err != nil {
				b.Fatalf("RouteNext failed: %v", err)
			}
			if !ok {
				break
			}
			id, rt, dest, area, nh = &k.ID, &k.Type, &k.Dest, &k.Area, &k.NextHop
		}
	}
}

func BenchmarkSNMPWalk(b *testing.B) {
	m, _ := newTestManager(b)
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		cur := DefaultMIBRoot
		for {
			vb, ok, err := m.SNMPNext(ctx, cur)
			if err != nil {
				b.Fatalf("SNMPNext failed: %v", err)
			}
			if !ok {
				break
			}
			cur = vb.OID
		}
	}
}

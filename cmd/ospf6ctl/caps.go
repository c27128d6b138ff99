package main

import (
	"context"
	"fmt"
	"os"

	"github.com/golangsnmp/ospf6"
)

func (c *cli) cmdCaps(args []string) int {
	if len(args) > 0 {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}
	return c.withManager(func(_ context.Context, m *ospf6.Manager) error {
		caps := m.Capabilities()
		rows := []struct {
			name     string
			min, max uint32
		}{
			{"instance", 1, uint32(caps.InstanceMax)},
			{"router-id", caps.RouterIDMin, caps.RouterIDMax},
			{"priority", caps.PriorityMin, caps.PriorityMax},
			{"cost", caps.GeneralCostMin, caps.GeneralCostMax},
			{"interface-cost", caps.InterfaceCostMin, caps.InterfaceCostMax},
			{"hello", caps.HelloMin, caps.HelloMax},
			{"dead", caps.DeadMin, caps.DeadMax},
			{"retransmit", caps.RetransmitMin, caps.RetransmitMax},
			{"transmit-delay", caps.TransmitDelayMin, caps.TransmitDelayMax},
			{"distance", caps.DistanceMin, caps.DistanceMax},
		}
		for _, r := range rows {
			fmt.Printf("%-15s %d..%d\n", r.name, r.min, r.max)
		}
		return nil
	})
}

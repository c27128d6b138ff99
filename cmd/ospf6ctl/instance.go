package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/golangsnmp/ospf6"
)

const instanceUsage = `ospf6ctl instance - List, add or delete OSPF6 instances

Usage:
  ospf6ctl instance list
  ospf6ctl instance add ID
  ospf6ctl instance del ID

Adding the first instance starts the OSPF6 process and deleting the last
one stops it. Further instances share that process and live only as long
as the Manager, so combine add with save to keep them.

Examples:
  ospf6ctl instance add 1
  ospf6ctl instance list
`

func (c *cli) cmdInstance(args []string) int {
	if c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, instanceUsage)
		return exitOK
	}
	if len(args) == 0 {
		_, _ = fmt.Fprint(os.Stderr, instanceUsage)
		return exitError
	}

	switch args[0] {
	case "list":
		return c.withManager(func(_ context.Context, m *ospf6.Manager) error {
			for _, id := range collectInstances(m) {
				fmt.Println(id)
			}
			return nil
		})
	case "add", "del":
		if len(args) != 2 {
			_, _ = fmt.Fprint(os.Stderr, instanceUsage)
			return exitError
		}
		n, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			printError("invalid instance ID %q", args[1])
			return exitError
		}
		id := ospf6.InstanceID(n)
		return c.withManager(func(ctx context.Context, m *ospf6.Manager) error {
			if args[0] == "add" {
				return m.Add(ctx, id)
			}
			return m.Del(ctx, id)
		})
	default:
		printError("unknown instance command %q", args[0])
		return exitError
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/golangsnmp/ospf6"
)

const startupUsage = `ospf6ctl save|restore|history|erase - Manage the startup configuration

Usage:
  ospf6ctl --store PATH save
  ospf6ctl --store PATH restore
  ospf6ctl --store PATH history
  ospf6ctl --store PATH erase

The store path may also come from the config file.
`

func (c *cli) cmdStartup(cmd string, args []string) int {
	if c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, startupUsage)
		return exitOK
	}
	if len(args) > 0 {
		_, _ = fmt.Fprint(os.Stderr, startupUsage)
		return exitError
	}

	return c.withManager(func(ctx context.Context, m *ospf6.Manager) error {
		switch cmd {
		case "save":
			return m.SaveConfig(ctx)
		case "restore":
			return m.RestoreConfig(ctx)
		case "erase":
			return m.EraseConfig()
		}
		hist, err := m.StartupHistory()
		if err != nil {
			return err
		}
		for _, t := range hist {
			fmt.Println(t.Format(time.RFC3339))
		}
		return nil
	})
}

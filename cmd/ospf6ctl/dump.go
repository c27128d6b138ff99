package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/golangsnmp/ospf6"
	"github.com/golangsnmp/ospf6/cmd/internal/cliutil"
)

const dumpUsage = `ospf6ctl dump - Output every table as JSON

Usage:
  ospf6ctl dump [options]

Options:
  -h, --help   Show help
`

func (c *cli) cmdDump(args []string) int {
	if c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, dumpUsage)
		return exitOK
	}
	if len(args) > 0 {
		_, _ = fmt.Fprint(os.Stderr, dumpUsage)
		return exitError
	}

	return c.withManager(func(ctx context.Context, m *ospf6.Manager) error {
		d, err := dump(ctx, m)
		if err != nil {
			return err
		}
		out, done, err := cliutil.GetOutput(c.OutputFile)
		if err != nil {
			return err
		}
		defer done()
		return writeJSON(out, d)
	})
}

// dump collects all tables concurrently. The Manager serializes the calls,
// so the tables are consistent per walk step, not across tables.
func dump(ctx context.Context, m *ospf6.Manager) (*DumpOutput, error) {
	d := &DumpOutput{Instances: collectInstances(m)}

	g, ctx := errgroup.WithContext(ctx)
	collectInto(ctx, g, m, "router", &d.Routers, collectRouters)
	collectInto(ctx, g, m, "areas", &d.Areas, collectAreas)
	collectInto(ctx, g, m, "ranges", &d.Ranges, collectRanges)
	collectInto(ctx, g, m, "stubs", &d.Stubs, collectStubs)
	collectInto(ctx, g, m, "intfconf", &d.IntfConfs, collectIntfConfs)
	collectInto(ctx, g, m, "interfaces", &d.Interfaces, collectInterfaces)
	collectInto(ctx, g, m, "neighbors", &d.Neighbors, collectNeighbors)
	collectInto(ctx, g, m, "routes", &d.Routes, collectRoutes)
	collectInto(ctx, g, m, "db", &d.Database, collectDatabase)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func collectInto[T any](ctx context.Context, g *errgroup.Group, m *ospf6.Manager, table string, dst *[]T, fn func(context.Context, *ospf6.Manager) ([]T, error)) {
	g.Go(func() error {
		rows, err := fn(ctx, m)
		if err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
		*dst = rows
		return nil
	})
}

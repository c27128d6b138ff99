package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/golangsnmp/ospf6"
	"github.com/golangsnmp/ospf6/cmd/internal/cliutil"
)

const (
	formatText = "text"
	formatJSON = "json"
)

const showUsage = `ospf6ctl show - Walk one table

Usage:
  ospf6ctl show [options] TABLE

Tables:
  router      Router configuration and status per instance
  areas       Attached areas
  ranges      Area ranges
  stubs       Stub areas
  intfconf    VLAN interface configuration
  interfaces  Interface status
  neighbors   Neighbor status
  routes      Routing table
  db          Link-state database headers

Options:
  --format FMT   Output format: text, json (default: text)
  -h, --help     Show help

Examples:
  ospf6ctl show neighbors
  ospf6ctl show routes --format json
`

// showTable pairs a collector with a text renderer for one table.
type showTable struct {
	collect func(ctx context.Context, m *ospf6.Manager) (any, error)
	header  string
	rows    func(v any) [][]any
}

func table[T any](collect func(context.Context, *ospf6.Manager) ([]T, error), header string, row func(T) []any) showTable {
	return showTable{
		collect: func(ctx context.Context, m *ospf6.Manager) (any, error) { return collect(ctx, m) },
		header:  header,
		rows: func(v any) [][]any {
			var res [][]any
			for _, r := range v.([]T) {
				res = append(res, row(r))
			}
			return res
		},
	}
}

var showTables = map[string]showTable{
	"router": table(collectRouters, "INST\tROUTER-ID\tACTIVE\tDISTANCE\tAREAS", func(r RouterJSON) []any {
		return []any{r.Instance, r.RouterID, r.ActiveRouterID, r.Distance, r.AttachedAreas}
	}),
	"areas": table(collectAreas, "INST\tAREA\tTYPE\tSPF\tLSAS\tINTERFACES", func(r AreaJSON) []any {
		return []any{r.Instance, r.Area, r.Type, r.SPFExecuted, r.LSACount, r.InterfaceCount}
	}),
	"ranges": table(collectRanges, "INST\tAREA\tNETWORK\tADVERTISE\tCOST", func(r RangeJSON) []any {
		cost := "-"
		if r.Cost != nil {
			cost = fmt.Sprint(*r.Cost)
		}
		return []any{r.Instance, r.Area, r.Network, r.Advertised, cost}
	}),
	"stubs": table(collectStubs, "INST\tAREA\tNO-SUMMARY", func(r StubJSON) []any {
		return []any{r.Instance, r.Area, r.NoSummary}
	}),
	"intfconf": table(collectIntfConfs, "INTERFACE\tAREA\tPRIO\tCOST\tHELLO\tDEAD\tRXMT\tDELAY\tPASSIVE", func(r IntfConfJSON) []any {
		return []any{r.Interface, r.Area, r.Priority, r.Cost, r.Hello, r.Dead, r.Retransmit, r.TransmitDelay, r.Passive}
	}),
	"interfaces": table(collectInterfaces, "INTERFACE\tUP\tADDRESS\tAREA\tSTATE\tCOST\tDR\tBDR", func(r InterfaceJSON) []any {
		return []any{r.Interface, r.Up, r.Address, r.Area, r.State, r.Cost, r.DR, r.BDR}
	}),
	"neighbors": table(collectNeighbors, "INST\tROUTER-ID\tADDRESS\tINTERFACE\tSTATE\tPRIO\tDEAD", func(r NeighborJSON) []any {
		return []any{r.Instance, r.RouterID, r.Address, r.Interface, r.State, r.Priority, r.DeadTime}
	}),
	"routes": table(collectRoutes, "INST\tTYPE\tDESTINATION\tAREA\tNEXT-HOP\tINTERFACE\tCOST", func(r RouteJSON) []any {
		return []any{r.Instance, r.Type, r.Destination, r.Area, r.NextHop, r.Interface, r.Cost}
	}),
	"db": table(collectDatabase, "INST\tAREA\tTYPE\tLINK-ID\tADV-ROUTER\tAGE\tSEQ", func(r DBJSON) []any {
		return []any{r.Instance, r.Area, r.Type, r.LinkID, r.AdvRouter, r.Age, r.Seq}
	}),
}

func (c *cli) cmdShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, showUsage) }

	format := fs.String("format", formatText, "output format: text, json")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, showUsage)
		return exitOK
	}
	if fs.NArg() != 1 {
		_, _ = fmt.Fprint(os.Stderr, showUsage)
		return exitError
	}
	t, ok := showTables[fs.Arg(0)]
	if !ok {
		printError("unknown table %q", fs.Arg(0))
		return exitError
	}
	if *format != formatText && *format != formatJSON {
		printError("unknown format %q", *format)
		return exitError
	}

	return c.withManager(func(ctx context.Context, m *ospf6.Manager) error {
		v, err := t.collect(ctx, m)
		if err != nil {
			return err
		}
		out, done, err := cliutil.GetOutput(c.OutputFile)
		if err != nil {
			return err
		}
		defer done()
		if *format == formatJSON {
			return writeJSON(out, v)
		}
		return writeText(out, t.header, t.rows(v))
	})
}

func writeText(w io.Writer, header string, rows [][]any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		for i, v := range r {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, v)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

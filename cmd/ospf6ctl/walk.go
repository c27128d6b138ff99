package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/golangsnmp/ospf6"
	"github.com/golangsnmp/ospf6/cmd/internal/cliutil"
	"github.com/golangsnmp/ospf6/snmp"
)

const walkUsage = `ospf6ctl walk - Walk the SNMP view

Usage:
  ospf6ctl walk [options] [OID]

Walks every object under OID (default: the MIB root) in GetNext order
and prints one "OID = value" line per object.

Options:
  -n N         Stop after N objects (default: unlimited)
  -h, --help   Show help

Examples:
  ospf6ctl walk
  ospf6ctl walk 1.3.6.1.3.191.4
`

const getUsage = `ospf6ctl get - Read one SNMP object

Usage:
  ospf6ctl get OID

Examples:
  ospf6ctl get 1.3.6.1.3.191.2.1.3.1
`

func (c *cli) cmdWalk(args []string) int {
	fs := flag.NewFlagSet("walk", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, walkUsage) }

	limit := fs.Int("n", 0, "stop after N objects")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, walkUsage)
		return exitOK
	}

	var start snmp.Oid
	if fs.NArg() > 0 {
		oid, err := snmp.ParseOID(fs.Arg(0))
		if err != nil {
			printError("%v", err)
			return exitError
		}
		start = oid
	}

	return c.withManager(func(ctx context.Context, m *ospf6.Manager) error {
		out, done, err := cliutil.GetOutput(c.OutputFile)
		if err != nil {
			return err
		}
		defer done()

		prefix := start
		cur := start
		for n := 0; *limit == 0 || n < *limit; n++ {
			vb, ok, err := m.SNMPNext(ctx, cur)
			if err != nil {
				return err
			}
			if !ok || (prefix != nil && !vb.OID.HasPrefix(prefix)) {
				return nil
			}
			fmt.Fprintf(out, "%s = %d\n", vb.OID, vb.Value)
			cur = vb.OID
		}
		return nil
	})
}

func (c *cli) cmdGet(args []string) int {
	if c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, getUsage)
		return exitOK
	}
	if len(args) != 1 {
		_, _ = fmt.Fprint(os.Stderr, getUsage)
		return exitError
	}
	oid, err := snmp.ParseOID(args[0])
	if err != nil {
		printError("%v", err)
		return exitError
	}
	return c.withManager(func(ctx context.Context, m *ospf6.Manager) error {
		v, err := m.SNMPGet(ctx, oid)
		if err != nil {
			return err
		}
		fmt.Printf("%s = %d\n", oid, v)
		return nil
	})
}

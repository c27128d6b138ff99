// Command ospf6ctl inspects and administers the OSPF6 process through the
// ospf6 Manager.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/golangsnmp/ospf6"
	"github.com/golangsnmp/ospf6/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK    = 0 // success
	exitError = 1 // user error or daemon failure
)

const usage = `ospf6ctl - OSPF6 inspection and administration tool

Usage:
  ospf6ctl <command> [options] [arguments]

Commands:
  instance  List, add or delete OSPF6 instances
  show      Walk one table (router, areas, ranges, stubs, intfconf,
            interfaces, neighbors, routes, db)
  walk      Walk the SNMP view from an OID
  get       Read one SNMP object
  dump      Output every table as JSON
  save      Save the running configuration as startup configuration
  restore   Replace the running configuration with the startup one
  history   List retained startup configurations
  erase     Remove the startup configuration
  caps      Show value ranges
  version   Show version

Common options:
  -c, --config FILE  Read options from a YAML file
  -s, --socket PATH  Daemon vty socket
  --store PATH       Startup configuration store
  -o, --output FILE  Write output to FILE
  -v, --verbose      Enable debug logging
  -vv                Enable trace logging (implies -v)
  -h, --help         Show help

Examples:
  ospf6ctl instance list
  ospf6ctl show neighbors --format json
  ospf6ctl walk 1.3.6.1.3.191.3
  ospf6ctl --store /var/lib/ospf6/startup.db save
`

type cli struct {
	cliutil.GlobalFlags
	conf fileConfig
}

func main() {
	os.Exit(run())
}

func run() int {
	flags, cmd, cmdArgs := cliutil.ParseArgs(os.Args[1:])
	c := &cli{GlobalFlags: flags}

	if c.HelpFlag && cmd == "" {
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	}
	if cmd == "" {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}

	if c.ConfigFile != "" {
		conf, err := loadConfig(c.ConfigFile)
		if err != nil {
			printError("%v", err)
			return exitError
		}
		c.conf = conf
	}

	switch cmd {
	case "instance":
		return c.cmdInstance(cmdArgs)
	case "show":
		return c.cmdShow(cmdArgs)
	case "walk":
		return c.cmdWalk(cmdArgs)
	case "get":
		return c.cmdGet(cmdArgs)
	case "dump":
		return c.cmdDump(cmdArgs)
	case "save", "restore", "history", "erase":
		return c.cmdStartup(cmd, cmdArgs)
	case "caps":
		return c.cmdCaps(cmdArgs)
	case "version":
		printVersion()
		return exitOK
	case "help":
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}
}

func (c *cli) setupLogger() *slog.Logger {
	if c.Verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.Verbose >= 2 {
		level = ospf6.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// open connects a Manager using the config file overlaid with flags.
func (c *cli) open(ctx context.Context) (*ospf6.Manager, error) {
	opts, err := c.conf.options()
	if err != nil {
		return nil, err
	}
	if c.Socket != "" {
		opts = append(opts, ospf6.WithSocket(c.Socket))
	}
	if c.Store != "" {
		opts = append(opts, ospf6.WithStore(c.Store))
	}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, ospf6.WithLogger(logger))
	}
	return ospf6.Open(ctx, opts...)
}

// withManager opens a Manager, runs fn and closes it again.
func (c *cli) withManager(fn func(ctx context.Context, m *ospf6.Manager) error) int {
	ctx := context.Background()
	m, err := c.open(ctx)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer func() { _ = m.Close() }()

	if err := fn(ctx, m); err != nil {
		printError("%v", err)
		return exitError
	}
	return exitOK
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("ospf6ctl %s\n", version)
}

func printError(format string, args ...any) {
	cliutil.PrintError(format, args...)
}

// Package cliutil provides shared helpers for the ospf6 command-line tools.
package cliutil

import (
	"fmt"
	"os"
	"strings"
)

// GlobalFlags holds the flags accepted before or after the subcommand.
type GlobalFlags struct {
	Verbose    int
	ConfigFile string
	Socket     string
	Store      string
	OutputFile string
	HelpFlag   bool
}

// ParseArgs parses global flags and extracts the subcommand from args.
// Flags handled: -v/--verbose, -vv, -c/--config, -s/--socket, --store,
// -o/--output, -h/--help. Unrecognized flags are passed through to the
// subcommand.
func ParseArgs(args []string) (flags GlobalFlags, cmd string, cmdArgs []string) {
	value := func(i *int) string {
		if *i+1 < len(args) {
			*i++
			return args[*i]
		}
		return ""
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			flags.HelpFlag = true
		case arg == "-v" || arg == "--verbose":
			flags.Verbose = max(flags.Verbose, 1)
		case arg == "-vv":
			flags.Verbose = 2
		case arg == "-c" || arg == "--config":
			flags.ConfigFile = value(&i)
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigFile = arg[len("--config="):]
		case arg == "-s" || arg == "--socket":
			flags.Socket = value(&i)
		case strings.HasPrefix(arg, "--socket="):
			flags.Socket = arg[len("--socket="):]
		case arg == "--store":
			flags.Store = value(&i)
		case strings.HasPrefix(arg, "--store="):
			flags.Store = arg[len("--store="):]
		case arg == "-o" || arg == "--output":
			flags.OutputFile = value(&i)
		case strings.HasPrefix(arg, "--output="):
			flags.OutputFile = arg[len("--output="):]
		case len(arg) > 0 && arg[0] == '-':
			cmdArgs = append(cmdArgs, arg)
		default:
			if cmd == "" {
				cmd = arg
			} else {
				cmdArgs = append(cmdArgs, arg)
			}
		}
	}
	return
}

// GetOutput opens the output file or returns stdout.
func GetOutput(outputFile string) (*os.File, func(), error) {
	if outputFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

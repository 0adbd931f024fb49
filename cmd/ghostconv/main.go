// Command ghostconv converts documents and images between vector and raster
// formats through an external Ghostscript engine.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Optional .env for GHOSTCONV_GS_BIN, ROD_BROWSER_BIN, etc. A missing
	// file is fine.
	_ = godotenv.Load()

	verbose := hasVerboseFlag(os.Args)

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	deps := DefaultDeps()
	err := run(os.Args[1:], deps)
	os.Exit(exitCodeFor(err))
}

// hasVerboseFlag scans raw args before flag parsing so maxprocs logging can
// be decided up front.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// run dispatches the subcommand.
func run(args []string, deps *Dependencies) error {
	if len(args) == 0 {
		printUsage(deps.Stderr)
		return ErrNoCommand
	}

	switch args[0] {
	case "convert":
		flags, inputs, err := parseConvertFlags(args[1:])
		if err != nil {
			return err
		}
		return runConvert(inputs, flags, deps)
	case "profile":
		return runProfile(args[1:], deps)
	case "doctor":
		return runDoctor(deps)
	case "version":
		fmt.Fprintf(deps.Stdout, "ghostconv %s\n", Version)
		return nil
	case "help", "-h", "--help":
		if len(args) > 1 && args[1] == "convert" {
			printConvertUsage(deps.Stdout)
		} else {
			printUsage(deps.Stdout)
		}
		return nil
	default:
		printUsage(deps.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
}

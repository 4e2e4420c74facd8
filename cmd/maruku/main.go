package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS before sizing the worker pool.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "convert":
		ctx, stop := notifyContext(env.Context())
		defer stop()
		if err := runConvert(ctx, rest, env); err != nil {
			fmt.Fprintln(env.Stderr, formatError(err))
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "engines":
		if err := runEngines(env); err != nil {
			fmt.Fprintln(env.Stderr, formatError(err))
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "completion":
		if err := runCompletion(rest, env); err != nil {
			fmt.Fprintln(env.Stderr, formatError(err))
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "maruku %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// hasVerboseFlag reports whether -v or --verbose appears before any "--".
func hasVerboseFlag(args []string) bool {
	for _, a := range args[1:] {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}

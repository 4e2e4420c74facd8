package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: maruku <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert markdown files to HTML")
	fmt.Fprintln(w, "  engines    List math engines")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'maruku help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: maruku convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files with TeX math to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Math:")
	fmt.Fprintln(w, "  -e, --engine <name>       Markup engine (default: none)")
	fmt.Fprintln(w, "      --png-engine <name>   PNG engine: gofont, chrome (default: gofont)")
	fmt.Fprintln(w, "      --mathml[=false]      Emit engine markup")
	fmt.Fprintln(w, "      --png[=false]         Emit PNG images")
	fmt.Fprintln(w, "      --mathjax[=false]     Emit MathJax scripts and load MathJax")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -t, --title <s>           Document title, overriding the header")
	fmt.Fprintln(w, "      --css <path>          Extra stylesheet file")
	fmt.Fprintln(w, "      --style <name>        Document style: default, technical, or \"\" for none")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style for code blocks (default: github)")
	fmt.Fprintln(w, "      --strict              Exit 1 when a document reports errors")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show engine notices and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MARUKU_CONFIG, MARUKU_OUTPUT_DIR, MARUKU_WORKERS,")
	fmt.Fprintln(w, "  MARUKU_MATH_ENGINE, MARUKU_PNG_ENGINE")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX (chrome png engine)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document headers override config settings:")
	fmt.Fprintln(w, "  ---")
	fmt.Fprintln(w, "  title: Notes")
	fmt.Fprintln(w, "  HTML math output png: true")
	fmt.Fprintln(w, "  ---")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 general (or document errors with --strict),")
	fmt.Fprintln(w, "  2 usage/config, 3 I/O, 4 browser")
}

// printEnginesUsage prints usage for the engines command.
func printEnginesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: maruku engines")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the markup and png math engines that can be named in")
	fmt.Fprintln(w, "html_math_engine and html_png_engine.")
}

// runHelp prints help for a command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "engines":
		printEnginesUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: maruku version")
	case "completion":
		printCompletionUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		return ExitUsage
	}
	return ExitSuccess
}

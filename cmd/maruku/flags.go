package main

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/dgleich/maruku"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// mathFlags holds math engine and output flags. The output switches are
// only applied when set on the command line.
type mathFlags struct {
	engine    string
	pngEngine string
	mathml    bool
	png       bool
	mathjax   bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	math      mathFlags
	output    string
	workers   int
	title     string
	css       string
	style     string
	highlight string
	strict    bool

	// set records which flags were given explicitly.
	set func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show engine notices and timing")
}

// addMathFlags adds math flags to a FlagSet.
func addMathFlags(fs *flag.FlagSet, f *mathFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "markup math engine (html_math_engine)")
	fs.StringVar(&f.pngEngine, "png-engine", "", "png math engine (html_png_engine)")
	fs.BoolVar(&f.mathml, "mathml", false, "emit engine markup for math")
	fs.BoolVar(&f.png, "png", false, "emit PNG images for math")
	fs.BoolVar(&f.mathjax, "mathjax", false, "emit MathJax scripts for math")
}

// addConvertFlags registers every convert flag on fs.
func addConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	addCommonFlags(fs, &f.common)
	addMathFlags(fs, &f.math)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.title, "title", "t", "", "document title, overriding the header")
	fs.StringVar(&f.css, "css", "", "extra stylesheet file")
	fs.StringVar(&f.style, "style", "", "document style (default, technical; empty for none)")
	fs.StringVar(&f.highlight, "highlight-style", "", "chroma style for code blocks")
	fs.BoolVar(&f.strict, "strict", false, "fail when a document reports errors")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printConvertUsage(stderr) }

	addConvertFlags(fs, f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.set = func(name string) bool { return fs.Changed(name) }
	return f, fs.Args(), nil
}

// changed reports whether name was given on the command line.
func (f *convertFlags) changed(name string) bool {
	return f.set != nil && f.set(name)
}

// overrides returns the document settings given on the command line.
func (f *convertFlags) overrides() map[string]any {
	m := map[string]any{}
	if f.math.engine != "" {
		m[maruku.SettingMathEngine] = f.math.engine
	}
	if f.math.pngEngine != "" {
		m[maruku.SettingPNGEngine] = f.math.pngEngine
	}
	if f.title != "" {
		m[maruku.SettingTitle] = f.title
	}
	if f.changed("mathml") {
		m[maruku.SettingOutputMathML] = f.math.mathml
	}
	if f.changed("png") {
		m[maruku.SettingOutputPNG] = f.math.png
	}
	if f.changed("mathjax") {
		m[maruku.SettingOutputMathJax] = f.math.mathjax
	}
	return m
}

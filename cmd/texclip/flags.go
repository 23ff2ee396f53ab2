package main

import (
	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// styleFlags holds rendering style flags.
type styleFlags struct {
	color      string
	fontSize   int
	dpi        int
	onlyImages bool
}

// engineFlags holds typesetting engine flags.
type engineFlags struct {
	name    string
	command string
	timeout string
}

// appFlags holds all flags for the texclip commands.
type appFlags struct {
	common   commonFlags
	style    styleFlags
	engine   engineFlags
	interval string
	output   string
	workers  int
	version  bool
}

// parseFlags parses args and returns the flags plus the remaining
// positional arguments (command and its operands).
func parseFlags(args []string) (*appFlags, []string, error) {
	f := &appFlags{}
	fs := flag.NewFlagSet("texclip", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	fs.StringVarP(&f.common.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.common.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.common.verbose, "verbose", "v", false, "show per-equation diagnostics")

	fs.StringVar(&f.style.color, "color", "", "equation text color (named or #rrggbb)")
	fs.IntVar(&f.style.fontSize, "font-size", 0, "font size in points (10-50)")
	fs.IntVar(&f.style.dpi, "dpi", 0, "render resolution (100-600)")
	fs.BoolVar(&f.style.onlyImages, "only-images", false, "emit equation images only, no text")

	fs.StringVar(&f.engine.name, "engine", "", "typesetting engine: latex, glyph")
	fs.StringVar(&f.engine.command, "engine-command", "", "LaTeX compiler binary")
	fs.StringVar(&f.engine.timeout, "timeout", "", "per-equation engine timeout (e.g. 30s)")

	fs.StringVar(&f.interval, "interval", "", "clipboard poll interval for watch (e.g. 1s)")
	fs.StringVarP(&f.output, "output", "o", "", "output path for export")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel services for batch export (0 = auto)")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// printUsage writes command help in the standard layout.
func printUsage(fs *flag.FlagSet) {
	fs.SetOutput(fs.Output())
	_, _ = fs.Output().Write([]byte(usageText))
	fs.PrintDefaults()
}

const usageText = `texclip - render LaTeX equations in clipboard text to images

Usage:
  texclip copy [file]          convert file (or stdin) and copy to clipboard
  texclip watch                monitor the clipboard and convert on change
  texclip export <file...>     convert files and export PDFs
  texclip config save <name>   persist current settings as a named config

Flags:
`

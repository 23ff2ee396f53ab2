package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	texclip "github.com/alnah/go-texclip"
	"github.com/alnah/go-texclip/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoCommand      = errors.New("usage: texclip <copy|watch|export|config> [flags] [args]")
	ErrUnknownCommand = errors.New("unknown command")
	ErrReadInput      = errors.New("failed to read input")
	ErrNoExportFiles  = errors.New("export requires at least one input file")
	ErrConfigUsage    = errors.New("usage: texclip config save <name>")
)

// run parses arguments, resolves configuration, and dispatches to the
// selected command.
func run(args []string, env *Environment) error {
	flags, pos, err := parseFlags(args)
	if err != nil {
		return err
	}

	if flags.version {
		fmt.Fprintf(env.Stdout, "texclip %s\n", Version)
		return nil
	}
	if len(pos) == 0 {
		return ErrNoCommand
	}

	cfg, err := resolveConfig(flags, env)
	if err != nil {
		return err
	}

	switch pos[0] {
	case "copy":
		return runCopy(flags, pos[1:], cfg, env)
	case "watch":
		return runWatch(flags, cfg, env)
	case "export":
		return runExport(flags, pos[1:], cfg, env)
	case "config":
		return runConfigSave(flags, pos[1:], cfg, env)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, pos[0])
	}
}

// resolveConfig loads the config file (if any) and overlays flag values.
func resolveConfig(flags *appFlags, env *Environment) (*config.Config, error) {
	cfg := env.Config
	if flags.common.config != "" {
		loaded, err := config.LoadConfig(flags.common.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Flags override config values.
	if flags.style.color != "" {
		cfg.Style.Color = flags.style.color
	}
	if flags.style.fontSize != 0 {
		cfg.Style.FontSize = flags.style.fontSize
	}
	if flags.style.dpi != 0 {
		cfg.Style.DPI = flags.style.dpi
	}
	if flags.style.onlyImages {
		cfg.Style.OnlyImages = true
	}
	if flags.engine.name != "" {
		cfg.Engine.Name = flags.engine.name
	}
	if flags.engine.command != "" {
		cfg.Engine.Command = flags.engine.command
	}
	if flags.engine.timeout != "" {
		cfg.Engine.Timeout = flags.engine.timeout
	}
	if flags.interval != "" {
		cfg.Monitor.Interval = flags.interval
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serviceOptions translates config into library options.
func serviceOptions(flags *appFlags, cfg *config.Config, env *Environment) []texclip.Option {
	timeout, _ := cfg.EngineTimeout() // validated earlier

	opts := []texclip.Option{texclip.WithTimeout(timeout)}
	if cfg.Engine.Name == config.EngineGlyph {
		opts = append(opts, texclip.WithEngine(texclip.NewGlyphEngine()))
	} else {
		opts = append(opts, texclip.WithEngine(texclip.NewLatexEngine(cfg.Engine.Command, timeout)))
	}
	if flags.common.verbose {
		opts = append(opts, texclip.WithLogger(func(format string, args ...any) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	}
	return opts
}

// styleInput builds the per-run input from config.
func styleInput(cfg *config.Config, text string) texclip.Input {
	return texclip.Input{
		Text: text,
		Style: texclip.Style{
			Color:    cfg.Style.Color,
			FontSize: cfg.Style.FontSize,
			DPI:      cfg.Style.DPI,
		},
		OnlyImages: cfg.Style.OnlyImages,
	}
}

// runCopy converts one file (or stdin) and places it on the clipboard.
func runCopy(flags *appFlags, args []string, cfg *config.Config, env *Environment) error {
	text, err := readInput(args, env)
	if err != nil {
		return err
	}

	svc := texclip.New(serviceOptions(flags, cfg, env)...)
	defer func() { _ = svc.Close() }()

	res, err := svc.CopyToClipboard(context.Background(), styleInput(cfg, text))
	if err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Copied %d equation images (%d skipped)\n", res.Rendered, res.Skipped)
	}
	return nil
}

// runWatch monitors the clipboard until interrupted.
func runWatch(flags *appFlags, cfg *config.Config, env *Environment) error {
	interval, _ := cfg.PollInterval() // validated earlier

	svc := texclip.New(serviceOptions(flags, cfg, env)...)
	defer func() { _ = svc.Close() }()

	mon := texclip.NewMonitor(svc, interval)
	mon.SetStyle(texclip.Style{
		Color:    cfg.Style.Color,
		FontSize: cfg.Style.FontSize,
		DPI:      cfg.Style.DPI,
	}, cfg.Style.OnlyImages)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching clipboard every %s (Ctrl-C to stop)\n", interval)
	}

	err := mon.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runConfigSave persists the resolved configuration (config file plus
// flag overlay) under a name in the user config directory, so a tuned
// flag set can be recalled later with --config.
func runConfigSave(flags *appFlags, args []string, cfg *config.Config, env *Environment) error {
	if len(args) != 2 || args[0] != "save" || args[1] == "" {
		return ErrConfigUsage
	}

	path, err := config.SaveConfig(cfg, args[1])
	if err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Saved %s\n", path)
	}
	return nil
}

// runExport converts each input file to a PDF, in parallel when more
// than one worker is resolved.
func runExport(flags *appFlags, args []string, cfg *config.Config, env *Environment) error {
	if len(args) == 0 {
		return ErrNoExportFiles
	}

	poolSize := texclip.ResolvePoolSize(flags.workers)
	if poolSize > len(args) {
		poolSize = len(args)
	}
	pool := texclip.NewServicePool(poolSize, serviceOptions(flags, cfg, env)...)
	defer func() { _ = pool.Close() }()

	var wg sync.WaitGroup
	errs := make([]error, len(args))
	start := env.Now()

	for i, path := range args {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			errs[i] = exportOne(flags, path, cfg, pool, env)
		}(i, path)
	}
	wg.Wait()

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Exported %d files in %s\n", len(args), time.Since(start).Round(time.Millisecond))
	}
	return errors.Join(errs...)
}

// exportOne converts a single file and writes the PDF next to it (or
// into --output when set).
func exportOne(flags *appFlags, path string, cfg *config.Config, pool *texclip.ServicePool, env *Environment) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	svc := pool.Acquire()
	defer pool.Release(svc)

	pdf, err := svc.ExportPDF(context.Background(), styleInput(cfg, string(data)))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := outputPath(flags.output, cfg.Export.OutputDir, path)
	if err := os.WriteFile(out, pdf, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", out)
	}
	return nil
}

// outputPath picks the PDF destination: explicit --output, configured
// export directory, or next to the source file.
func outputPath(flagOutput, configDir, sourcePath string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath)) + ".pdf"
	switch {
	case flagOutput != "":
		return flagOutput
	case configDir != "":
		return filepath.Join(configDir, base)
	default:
		return filepath.Join(filepath.Dir(sourcePath), base)
	}
}

// readInput reads the text to convert from the first positional file
// argument, or stdin when none is given.
func readInput(args []string, env *Environment) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 -- user-provided input path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(data), nil
}

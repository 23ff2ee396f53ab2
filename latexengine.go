package texclip

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // artifact decoding
	"os"
	"path/filepath"
	"strings"
	"time"

	"os/exec"

	"github.com/alnah/go-texclip/internal/process"
)

// DefaultLatexCommand is the compiler invoked by the subprocess engine.
const DefaultLatexCommand = "luatex"

// texJobName is the basename used for the temporary LaTeX job.
const texJobName = "eq"

// texTemplate is the standalone document handed to the compiler. The
// math string is inserted as-is; it arrives already wrapped in $...$.
const texTemplate = `\documentclass[preview,border=2pt]{standalone}
\usepackage{amsmath}
\usepackage{amsfonts}
%s
\begin{document}
%s\fontsize{%.1f}{%.1f}\selectfont
%s
\end{document}
`

// CommandRunner abstracts subprocess execution to enable testing
// without a LaTeX installation.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// Run executes name with args in dir, honoring ctx cancellation.
// On cancellation the whole process group is killed so compiler child
// processes do not outlive the pipeline run.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Cancel = func() error {
		if cmd.Process != nil {
			process.KillProcessGroup(cmd.Process.Pid)
			return cmd.Process.Kill()
		}
		return nil
	}

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// LatexEngine typesets equations by invoking an external LaTeX compiler
// that produces a PNG page image. Subprocess failures (non-zero exit,
// timeout, missing artifact) all map to ErrEngineFailure.
type LatexEngine struct {
	command string
	timeout time.Duration
	runner  CommandRunner
}

// NewLatexEngine creates a LatexEngine. An empty command selects
// DefaultLatexCommand; a non-positive timeout selects defaultTimeout.
func NewLatexEngine(command string, timeout time.Duration) *LatexEngine {
	if command == "" {
		command = DefaultLatexCommand
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LatexEngine{
		command: command,
		timeout: timeout,
		runner:  &ExecRunner{},
	}
}

// Typeset compiles mathString to a PNG in a temporary directory and
// decodes the artifact.
func (e *LatexEngine) Typeset(ctx context.Context, mathString string, opts TypesetOptions) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "texclip-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	doc := fmt.Sprintf(texTemplate,
		colorPackage(opts.Color),
		colorCommand(opts.Color),
		opts.FontSizePt, opts.FontSizePt*1.2,
		mathString,
	)
	texPath := filepath.Join(dir, texJobName+".tex")
	if err := os.WriteFile(texPath, []byte(doc), 0o600); err != nil {
		return nil, fmt.Errorf("writing tex file: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	_, stderr, err := e.runner.Run(runCtx, dir, e.command,
		"--output-format=png",
		fmt.Sprintf("--resolution=%d", opts.DPI),
		"--interaction=nonstopmode",
		texJobName+".tex",
	)
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: compiler timed out after %s", ErrEngineFailure, e.timeout)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrEngineFailure, firstLine(stderr), err)
	}

	artifact := filepath.Join(dir, texJobName+".png")
	f, err := os.Open(artifact) // #nosec G304 -- path is inside our own temp dir
	if err != nil {
		return nil, fmt.Errorf("%w: compiler produced no output artifact", ErrEngineFailure)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding output artifact: %v", ErrEngineFailure, err)
	}
	return img, nil
}

// colorPackage returns the preamble needed for the requested color.
func colorPackage(c string) string {
	if strings.HasPrefix(c, "#") {
		return `\usepackage{xcolor}` + "\n" + fmt.Sprintf(`\definecolor{texclip}{HTML}{%s}`, strings.ToUpper(strings.TrimPrefix(c, "#")))
	}
	return `\usepackage{xcolor}`
}

// colorCommand returns the color switch inserted before the equation.
func colorCommand(c string) string {
	if strings.HasPrefix(c, "#") {
		return `\color{texclip}`
	}
	return fmt.Sprintf(`\color{%s}`, c)
}

// firstLine trims compiler stderr to its first line for error messages.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

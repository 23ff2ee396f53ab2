package texclip

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
)

// Clipboard abstracts the system clipboard backend. Both operations are
// treated as atomic by the pipeline: SetRichContent is only called
// after the payload encoded cleanly, so no partial state is committed.
type Clipboard interface {
	GetText() (string, error)
	SetRichContent(payload Payload, plainFallback string) error
}

// clipboardToolTimeout bounds the helper subprocess that posts the
// HTML variant.
const clipboardToolTimeout = 5 * time.Second

// htmlCopyTools lists, per platform, commands able to post text/html
// to the clipboard, tried in order. Platforms with no entry fall back
// to the plain-text variant only.
var htmlCopyTools = map[string][][]string{
	"linux": {
		{"wl-copy", "--type", "text/html"},
		{"xclip", "-selection", "clipboard", "-t", "text/html"},
	},
}

// systemClipboard talks to the real OS clipboard.
type systemClipboard struct{}

// NewSystemClipboard returns the production clipboard backend.
func NewSystemClipboard() Clipboard {
	return &systemClipboard{}
}

// GetText reads the plain-text clipboard content. An empty string with
// nil error means the clipboard holds no text.
func (c *systemClipboard) GetText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClipboardBackend, err)
	}
	return text, nil
}

// SetRichContent posts the CF_HTML payload where a helper tool is
// available and the plain fallback otherwise. The plain fallback is
// always written so plain-text consumers see the original text.
func (c *systemClipboard) SetRichContent(payload Payload, plainFallback string) error {
	if err := clipboard.WriteAll(plainFallback); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardBackend, err)
	}

	tools := htmlCopyTools[runtime.GOOS]
	if len(tools) == 0 {
		return nil
	}

	var lastErr error
	for _, tool := range tools {
		if _, err := exec.LookPath(tool[0]); err != nil {
			continue
		}
		if err := pipeToTool(payload.Data, tool); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("%w: posting HTML variant: %v", ErrClipboardBackend, lastErr)
	}
	return nil
}

// pipeToTool feeds data to a clipboard helper on stdin.
func pipeToTool(data []byte, tool []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), clipboardToolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, tool[0], tool[1:]...) // #nosec G204 -- fixed tool table above
	cmd.Stdin = bytes.NewReader(data)
	return cmd.Run()
}

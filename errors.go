package texclip

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyText     = errors.New("input text cannot be empty")
	ErrNoEquations   = errors.New("no equations found in text")
	ErrNothingToCopy = errors.New("no equation produced a usable image")

	// Per-equation render failures. All three are recoverable: the
	// pipeline skips the affected span and continues.
	ErrRenderNoContent = errors.New("rendered image has no visible content")
	ErrRenderEmpty     = errors.New("rendered image is below the visibility threshold")
	ErrEngineFailure   = errors.New("typesetting engine failed")

	// Codec errors.
	ErrCodecInvalid = errors.New("invalid base64 or non-PNG image data")
	ErrEmptyBitmap  = errors.New("bitmap has zero width or height")

	// Clipboard backend errors.
	ErrClipboardBackend = errors.New("clipboard backend operation failed")

	// Export errors.
	ErrExportFailure  = errors.New("PDF export failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Style validation errors.
	ErrInvalidFontSize = errors.New("invalid font size")
	ErrInvalidDPI      = errors.New("invalid DPI")
	ErrInvalidColor    = errors.New("invalid color")
)

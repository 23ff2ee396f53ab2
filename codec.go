package texclip

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"regexp"
)

// pngSignature is the 8-byte magic prefix of every PNG stream.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// base64Alphabet matches standard base64 with optional padding.
var base64Alphabet = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// EncodePNG serializes a bitmap to PNG bytes. PNG is lossless, so
// DecodePNG(EncodePNG(b)) reproduces b's pixel content exactly.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil || img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return nil, ErrEmptyBitmap
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodecInvalid, err)
	}
	return buf.Bytes(), nil
}

// DecodePNG parses PNG bytes back into an image.
func DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodecInvalid, err)
	}
	return img, nil
}

// EncodeBase64PNG serializes a bitmap to a base64 PNG string suitable
// for a data: URI.
func EncodeBase64PNG(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ValidateBase64PNG reports whether s is syntactically valid base64
// AND decodes to bytes starting with the PNG magic signature. Both
// checks must pass.
func ValidateBase64PNG(s string) bool {
	if s == "" || !base64Alphabet.MatchString(s) {
		return false
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return false
	}
	return bytes.HasPrefix(data, pngSignature)
}

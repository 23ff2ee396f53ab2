package texclip

import (
	"fmt"
	"strings"
)

// CF_HTML fragment markers. Consumers locate the pastable fragment by
// these exact comment strings.
const (
	StartFragmentMarker = "<!--StartFragment-->"
	EndFragmentMarker   = "<!--EndFragment-->"
)

// headerTemplate renders the CF_HTML offset header. All offset fields
// are fixed-width zero-padded decimals so the header's byte length is
// identical between the placeholder pass and the final pass.
const headerTemplate = "Version:0.9\r\n" +
	"StartHTML:%010d\r\n" +
	"EndHTML:%010d\r\n" +
	"StartFragment:%010d\r\n" +
	"EndFragment:%010d\r\n"

// Payload is the CF_HTML wire envelope. All four offsets are byte
// positions into Data (the UTF-8 encoding of header + body).
type Payload struct {
	StartHTML     int
	EndHTML       int
	StartFragment int
	EndFragment   int
	Data          []byte
}

// EncodePayload wraps fragmentHTML in the CF_HTML envelope. The header
// embeds byte offsets into the full payload, and the header's own
// length depends on those offsets' digit width, so the layout is
// computed in two passes: render a placeholder header to measure its
// byte length, then re-render with the true offsets. The fixed-width
// fields keep the length constant between passes, which is what makes
// the second pass correct.
func EncodePayload(fragmentHTML string) Payload {
	body := "<html>\r\n<body>\r\n" +
		StartFragmentMarker + fragmentHTML + EndFragmentMarker +
		"\r\n</body>\r\n</html>"

	// Pass 1: placeholder header, measured in bytes.
	headerLen := len(fmt.Sprintf(headerTemplate, 0, 0, 0, 0))

	// Pass 2: true offsets. Marker positions are byte indexes because
	// strings.Index operates on the UTF-8 encoding.
	startHTML := headerLen
	endHTML := headerLen + len(body)
	startFragment := headerLen + strings.Index(body, StartFragmentMarker) + len(StartFragmentMarker)
	endFragment := headerLen + strings.LastIndex(body, EndFragmentMarker)

	header := fmt.Sprintf(headerTemplate, startHTML, endHTML, startFragment, endFragment)

	return Payload{
		StartHTML:     startHTML,
		EndHTML:       endHTML,
		StartFragment: startFragment,
		EndFragment:   endFragment,
		Data:          []byte(header + body),
	}
}

// FragmentBytes returns the byte range [StartFragment, EndFragment) of
// the payload: the original fragment HTML.
func (p Payload) FragmentBytes() []byte {
	if p.StartFragment < 0 || p.EndFragment > len(p.Data) || p.StartFragment > p.EndFragment {
		return nil
	}
	return p.Data[p.StartFragment:p.EndFragment]
}

package project

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

var encodingDecl = regexp.MustCompile(`^\s*<\?xml[^>]*?\sencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// source is a document transcoded to UTF-8 for the XML decoder. Offsets
// reported by the decoder are mapped back to the original bytes so that
// rewrites splice the document the user wrote.
type source struct {
	text    []byte
	offsets []int64          // Original offset of each byte of text, plus the end; nil for UTF-8 input
	charmap *charmap.Charmap // Declared single-byte encoding; nil for UTF-8 input
}

// newSource decodes data according to its XML declaration. UTF-8 and
// single-byte encodings (ISO-8859-x, windows-125x, US-ASCII) are supported.
func newSource(data []byte) (*source, error) {
	m := encodingDecl.FindSubmatch(bytes.TrimPrefix(data, utf8BOM))
	if m == nil {
		return &source{text: data}, nil
	}
	label := strings.ToLower(string(m[1]))
	if label == "utf-8" || label == "utf8" {
		return &source{text: data}, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q", m[1])
	}
	cm, ok := enc.(*charmap.Charmap)
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q: only UTF-8 and single-byte encodings are supported", m[1])
	}

	text := make([]byte, 0, len(data))
	offsets := make([]int64, 0, len(data)+1)
	var buf [utf8.UTFMax]byte
	for i, b := range data {
		n := utf8.EncodeRune(buf[:], cm.DecodeByte(b))
		text = append(text, buf[:n]...)
		for range n {
			offsets = append(offsets, int64(i))
		}
	}
	offsets = append(offsets, int64(len(data)))
	return &source{text: text, offsets: offsets, charmap: cm}, nil
}

// original maps a decoder offset to an offset in the original bytes.
func (s *source) original(off int64) int64 {
	if s.offsets == nil {
		return off
	}
	return s.offsets[off]
}

// charsetReader hands the already transcoded text to the decoder.
func (s *source) charsetReader(_ string, r io.Reader) (io.Reader, error) {
	return r, nil
}

// encode converts generated UTF-8 text to the document's encoding.
// Characters the encoding cannot represent become character references.
func encode(cm *charmap.Charmap, text []byte) []byte {
	if cm == nil {
		return text
	}
	out := make([]byte, 0, len(text))
	for _, r := range string(text) {
		if b, ok := cm.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = fmt.Appendf(out, "&#%d;", r)
	}
	return out
}

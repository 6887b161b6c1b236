package upload

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Decode turns raw bytes into text: UTF-8 when valid, Latin-1 otherwise.
// Latin-1 maps every byte, so decoding never fails.
func Decode(raw []byte) string {
	if utf8.Valid(raw) {
		return strings.TrimPrefix(string(raw), "\ufeff")
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "")
	}
	return string(out)
}

// decodeEntryName fixes archive entry names written without the UTF-8 flag,
// which zip tools of that era encode as code page 437.
func decodeEntryName(name string, utf8Flag bool) string {
	if utf8Flag || utf8.ValidString(name) {
		return name
	}
	decoded, _, err := transform.String(charmap.CodePage437.NewDecoder(), name)
	if err != nil {
		return name
	}
	return decoded
}

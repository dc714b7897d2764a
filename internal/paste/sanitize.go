package paste

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const utf8BOM = "\ufeff"

// Sanitize prepares clipboard text for detection: it drops a leading byte
// order mark, replaces invalid UTF-8 with U+FFFD, turns CRLF and lone CR into
// LF and, when nfc is set, applies Unicode NFC normalisation so visually equal
// cells compare equal.
func Sanitize(s string, nfc bool) string {
	s = strings.TrimPrefix(s, utf8BOM)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	if strings.Contains(s, "\r") {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	if nfc && !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	return s
}

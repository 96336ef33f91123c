package faces

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxExternalIDLength is the longest ExternalImageId the face service accepts.
const maxExternalIDLength = 255

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// ExternalImageID turns an object key into an id matching [a-zA-Z0-9_.\-:]+.
// Diacritics are dropped first so "fotky/Jiří.jpg" becomes "fotky_Jiri.jpg".
func ExternalImageID(key string) string {
	key = RemoveDiacritics(key)

	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '.', r == '-', r == ':':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	id := b.String()
	if id == "" {
		return "_"
	}
	if len(id) > maxExternalIDLength {
		id = id[len(id)-maxExternalIDLength:]
	}
	return id
}

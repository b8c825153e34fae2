package scan

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var errInvalidUTF8 = errors.New("invalid UTF-8 byte sequence")

// canonicalEncoding maps accepted spellings to the name reported in results.
func canonicalEncoding(name string) (string, bool) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return "latin-1", true
	case "utf-8", "utf8":
		return "utf-8", true
	case "cp1252", "windows-1252":
		return "cp1252", true
	}
	return "", false
}

// KnownEncoding reports whether name is an accepted encoding spelling.
func KnownEncoding(name string) bool {
	_, ok := canonicalEncoding(name)
	return ok
}

// decodeAs converts data to UTF-8 text using the named encoding. UTF-8 is
// strict: any invalid sequence fails the candidate.
func decodeAs(name string, data []byte) (string, error) {
	canon, ok := canonicalEncoding(name)
	if !ok {
		return "", fmt.Errorf("unknown encoding %q", name)
	}

	var enc encoding.Encoding
	switch canon {
	case "latin-1":
		enc = charmap.ISO8859_1
	case "cp1252":
		enc = charmap.Windows1252
	case "utf-8":
		if !utf8.Valid(data) {
			return "", errInvalidUTF8
		}
		enc = unicode.UTF8BOM
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", canon, err)
	}
	return string(out), nil
}

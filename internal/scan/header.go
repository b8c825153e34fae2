package scan

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHeaderNotFound is returned when no candidate encoding yields a text in
// which the header terminator appears twice.
var ErrHeaderNotFound = errors.New("scan header not found")

// Header holds the key/value lines of the LVM header sections.
type Header struct {
	WriterVersion    string
	Date             string
	Time             string
	DecimalSeparator string
	// Fields keeps the first value seen for every key.
	Fields map[string]string
}

// Document is a decoded scan file split into header and data lines.
type Document struct {
	Encoding string
	Header   Header
	// Lines holds the data lines that follow the column-header line.
	Lines []string
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// locateData returns the index of the first data line: the terminator must
// appear twice and the line after the second occurrence is skipped.
func locateData(lines []string, marker string) (int, bool) {
	seen := 0
	for i, l := range lines {
		if strings.Contains(l, marker) {
			seen++
			if seen == 2 {
				return i + 2, true
			}
		}
	}
	return 0, false
}

func parseHeader(lines []string, marker string) Header {
	h := Header{Fields: make(map[string]string)}
	for _, l := range lines {
		if strings.Contains(l, marker) {
			continue
		}
		key, value, ok := strings.Cut(l, "\t")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		// Channel sections repeat keys with one value per channel.
		value, _, _ = strings.Cut(value, "\t")
		value = strings.TrimSpace(value)
		if _, dup := h.Fields[key]; dup {
			continue
		}
		h.Fields[key] = value
	}
	h.WriterVersion = h.Fields["Writer_Version"]
	h.Date = h.Fields["Date"]
	h.Time = h.Fields["Time"]
	h.DecimalSeparator = h.Fields["Decimal_Separator"]
	return h
}

// Decode tries each configured encoding in order and returns the first
// decoding in which the header terminator is found.
func Decode(data []byte, opts Options) (*Document, error) {
	opts = opts.withDefaults()

	var tried []string
	for _, name := range opts.Encodings {
		text, err := decodeAs(name, data)
		if err != nil {
			tried = append(tried, fmt.Sprintf("%s (%v)", name, err))
			continue
		}
		lines := splitLines(text)
		start, ok := locateData(lines, opts.HeaderMarker)
		if !ok {
			tried = append(tried, name+" (terminator not found)")
			continue
		}
		canon, _ := canonicalEncoding(name)
		doc := &Document{
			Encoding: canon,
			Header:   parseHeader(lines[:min(start-1, len(lines))], opts.HeaderMarker),
		}
		if start < len(lines) {
			doc.Lines = lines[start:]
		}
		return doc, nil
	}
	return nil, fmt.Errorf("%w: tried %s", ErrHeaderNotFound, strings.Join(tried, ", "))
}

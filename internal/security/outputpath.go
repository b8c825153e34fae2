// Package security builds output file paths from identifiers that come out of
// input data (scan file names, sample identifiers) and rejects any path that
// would land outside the chosen output directory.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNameLen bounds sanitized file names.
const maxNameLen = 128

// SanitizeFilename makes a safe filename from an arbitrary string. Unicode
// letters and digits, dot and dash are kept, so accented sample names stay
// distinct; any other run of characters becomes a single underscore. Leading
// and trailing dots and underscores are trimmed and the result is capped at
// maxNameLen bytes. An empty result becomes "unknown".
func SanitizeFilename(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len()+utf8.RuneLen(r) > maxNameLen {
			break
		}
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_':
			if !lastUnderscore {
				b.WriteRune(r)
			}
			lastUnderscore = true
		default:
			if !lastUnderscore {
				b.WriteRune('_')
			}
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}

// OutputPath joins dir with the sanitized stem and the given suffix
// (for example "_perfis.csv"). The result is checked lexically to stay
// inside dir.
func OutputPath(dir, stem, suffix string) (string, error) {
	name := SanitizeFilename(stem) + suffix
	p := filepath.Join(dir, name)
	if err := WithinDirectory(p, dir); err != nil {
		return "", err
	}
	return p, nil
}

// WithinDirectory reports an error when path, once cleaned, escapes dir.
// Symlinks are not resolved, so the check also works on in-memory filesystems.
func WithinDirectory(path, dir string) error {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return fmt.Errorf("path is outside output directory: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("path traversal detected: %s escapes %s", path, dir)
	}
	return nil
}

// Package storage keeps result files in an S3-compatible object store.
package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultFilename replaces names that sanitize to nothing.
const DefaultFilename = "arquivo.pdf"

func isAllowed(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-')
}

// SanitizeFilename folds accents to ASCII, replaces every character outside
// [A-Za-z0-9._-] with "_" and collapses repeats.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range folded {
		if !isAllowed(r) {
			r = '_'
		}
		if r == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), "_.")
	if out == "" {
		return DefaultFilename
	}
	return out
}

// ObjectKey is "<variant>/<request id>/<unix>_<sanitized name>".
func ObjectKey(variant, requestID, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%d_%s", variant, SanitizeFilename(requestID), at.Unix(), SanitizeFilename(filename))
}

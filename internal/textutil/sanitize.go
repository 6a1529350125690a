package textutil

import (
	"path/filepath"
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// BaseName strips directories and the final extension from a source name,
// then sanitizes what is left. Returns fallback when nothing usable remains.
func BaseName(source, fallback string) string {
	source = strings.TrimSpace(source)
	if source == "" || source == "-" {
		return fallback
	}
	base := filepath.Base(strings.ReplaceAll(source, "\\", "/"))
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.Trim(SanitizeFileName(base), ". ")
	if base == "" {
		return fallback
	}
	return base
}

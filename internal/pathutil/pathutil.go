// Package pathutil normalizes file-system and URL paths the same way on every
// platform so area roots, relative content paths and output targets compare equal.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	nativeSep = string(filepath.Separator)
	// foreignSep is the separator that is not native on this platform.
	foreignSep = string(rune('/' + '\\' - filepath.Separator))
)

// NormalizePath returns an absolute, cleaned, natively separated form of path.
// A leading "~" expands to the user's home directory. Empty or whitespace-only
// input returns "".
func NormalizePath(path string, lower bool) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	path = strings.ReplaceAll(path, foreignSep, nativeSep)
	path = expandHome(path)

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	} else {
		path = filepath.Clean(path)
	}
	if lower {
		path = strings.ToLower(path)
	}
	return path
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~"+nativeSep) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return home + path[1:]
}

// RelativePath returns path relative to root using native separators, with no
// leading separator. Equal paths yield "". When path is not below root the
// normalized path is returned unchanged.
func RelativePath(path, root string, lower bool) string {
	p := NormalizePath(path, lower)
	r := NormalizePath(root, lower)
	if p == "" {
		return ""
	}
	if r == "" {
		return p
	}
	rel, err := filepath.Rel(r, p)
	if err != nil {
		return p
	}
	if rel == "." {
		return ""
	}
	return strings.TrimLeft(rel, nativeSep)
}

// SanitizeRelativeSegment converts separators to the native form and strips a
// leading separator so the segment cannot replace a base when combined.
func SanitizeRelativeSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return ""
	}
	segment = strings.ReplaceAll(segment, foreignSep, nativeSep)
	return strings.TrimLeft(segment, nativeSep)
}

// CombinePath joins base with segments. Separators are converted to the
// native form; a segment that is itself absolute replaces everything before it.
// Empty segments are skipped.
func CombinePath(base string, segments ...string) string {
	result := strings.ReplaceAll(strings.TrimSpace(base), foreignSep, nativeSep)
	for _, seg := range segments {
		seg = strings.ReplaceAll(strings.TrimSpace(seg), foreignSep, nativeSep)
		switch {
		case seg == "":
			continue
		case filepath.IsAbs(seg) || result == "":
			result = seg
		default:
			result = filepath.Join(result, seg)
		}
	}
	if result == "" {
		return ""
	}
	return filepath.Clean(result)
}

// NormalizeURLSegment converts path into a URL segment: forward slashes, no
// leading slash, Unicode NFC, optionally lower-cased.
func NormalizeURLSegment(path string, lower bool) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimLeft(path, "/")
	path = norm.NFC.String(path)
	if lower {
		path = strings.ToLower(path)
	}
	return path
}

// Depth counts the separators in a relative path, treating both separator
// styles alike.
func Depth(rel string) int {
	return strings.Count(rel, "/") + strings.Count(rel, "\\")
}

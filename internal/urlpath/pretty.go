package urlpath

import "strings"

const indexFile = "index.html"

// Collapse turns an output-relative HTML path into its pretty form:
// "index.html" is "/", "x/index.html" is "/x/" and "x.html" is "/x".
// Other paths are returned rooted and unchanged.
func Collapse(rel string) string {
	rel = strings.TrimLeft(strings.ReplaceAll(strings.TrimSpace(rel), "\\", "/"), "/")
	switch {
	case rel == "" || rel == indexFile:
		return "/"
	case strings.HasSuffix(rel, "/"+indexFile):
		return "/" + strings.TrimSuffix(rel, indexFile)
	case strings.HasSuffix(rel, ".html"):
		return "/" + strings.TrimSuffix(rel, ".html")
	default:
		return "/" + rel
	}
}

// PrettyPath collapses rel and prefixes "/<locale>" unless locale is the default.
func PrettyPath(rel, locale, defaultLocale string) string {
	collapsed := Collapse(rel)
	locale = strings.Trim(strings.TrimSpace(locale), "/")
	if locale == "" || strings.EqualFold(locale, defaultLocale) {
		return collapsed
	}
	return "/" + locale + collapsed
}

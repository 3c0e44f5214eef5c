package errors

import (
	stderrors "errors"
	"strings"
)

const compilerErrorMarker = "Error(s):"

// Summarize reduces compiler-style output to its meaningful part: the text
// after an "Error(s):" marker when present, otherwise the first non-empty line.
func Summarize(text string) string {
	if idx := strings.Index(text, compilerErrorMarker); idx >= 0 {
		if rest := strings.TrimSpace(text[idx+len(compilerErrorMarker):]); rest != "" {
			return rest
		}
	}
	for line := range strings.SplitSeq(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// Chain returns one message per level of the wrapped error chain, outermost first.
// Messages of wrapping errors have the wrapped text trimmed off so each level
// appears once.
func Chain(err error) []string {
	var out []string
	for err != nil {
		next := stderrors.Unwrap(err)
		var msg string
		if classified, ok := err.(*ClassifiedError); ok {
			msg = classified.Message()
		} else {
			msg = err.Error()
			if next != nil {
				msg = strings.TrimSuffix(msg, ": "+next.Error())
			}
		}
		if msg != "" && (len(out) == 0 || out[len(out)-1] != msg) {
			out = append(out, msg)
		}
		err = next
	}
	return out
}

// Package frontmatter separates a page's metadata block from its Markdown body
// and decodes the block into a flattened metadata layer.
package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/chloroplast/internal/metadata"
)

// Mode records how the metadata block was located.
type Mode int

const (
	// ModeNone means no metadata block was found; the whole text is body.
	ModeNone Mode = iota
	// ModeDelimited means the block was enclosed in "---" lines.
	ModeDelimited
	// ModeBlankLine means the block ran up to the first blank line.
	ModeBlankLine
)

const delimiter = "---"

// Document is a parsed page: flattened metadata plus the remaining body.
type Document struct {
	Meta *metadata.Layer
	Body string
	Mode Mode
}

// Split separates the metadata block from the body.
//
// When the first line is "---" the block runs to the next "---" line (both
// compared after trimming). Otherwise the block runs to the first blank line.
// If no terminator exists, meta is empty and body is the full text. Line
// endings may be LF or CRLF.
func Split(text string) (meta, body string, mode Mode) {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 {
		return "", text, ModeNone
	}

	if strings.TrimSpace(lines[0]) == delimiter {
		offset := len(lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) == delimiter {
				return text[len(lines[0]):offset], text[offset+len(line):], ModeDelimited
			}
			offset += len(line)
		}
		return "", text, ModeNone
	}

	offset := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" && strings.HasSuffix(line, "\n") {
			return text[:offset], text[offset+len(line):], ModeBlankLine
		}
		offset += len(line)
	}
	return "", text, ModeNone
}

// Parse splits text and decodes its metadata block. Duplicate keys are
// reported as *metadata.DuplicateKeyError. A blank-line block counts as
// metadata only when its root is a YAML mapping; anything else, including a
// Markdown heading that YAML reads as a comment, stays in the body.
func Parse(name, text string) (*Document, error) {
	meta, body, mode := Split(text)
	if mode == ModeBlankLine && !isMapping(meta) {
		return &Document{Meta: metadata.NewLayer(name), Body: text, Mode: ModeNone}, nil
	}
	if mode == ModeNone || strings.TrimSpace(meta) == "" {
		return &Document{Meta: metadata.NewLayer(name), Body: body, Mode: mode}, nil
	}

	layer, err := metadata.ParseYAML(name, meta)
	if err != nil {
		return nil, err
	}
	return &Document{Meta: layer, Body: body, Mode: mode}, nil
}

func isMapping(text string) bool {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return false
	}
	return len(doc.Content) == 1 && doc.Content[0].Kind == yaml.MappingNode
}

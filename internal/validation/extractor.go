package validation

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
)

// Link is a reference found in an HTML document.
type Link struct {
	URL       string
	Text      string
	Tag       string
	Attribute string
}

// IsStylesheet reports whether the link loads CSS.
func (l *Link) IsStylesheet() bool {
	return l.Tag == "link" && (strings.Contains(strings.ToLower(l.Text), "stylesheet") ||
		strings.HasSuffix(strings.ToLower(linkPath(l.URL)), ".css"))
}

// ExtractLinks collects references from a parsed HTML document.
func ExtractLinks(r io.Reader) ([]*Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}

	var links []*Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if l := elementLink(n); l != nil {
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func elementLink(n *html.Node) *Link {
	var attr, text string
	switch n.Data {
	case "a":
		attr, text = "href", extractText(n)
	case "link":
		attr, text = "href", getAttr(n, "rel")
	case "img":
		attr, text = "src", getAttr(n, "alt")
	case "script", "source", "video", "audio":
		attr = "src"
	default:
		return nil
	}
	v := strings.TrimSpace(getAttr(n, attr))
	if v == "" {
		return nil
	}
	return &Link{URL: v, Text: text, Tag: n.Data, Attribute: attr}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(extractText(c))
	}
	return strings.TrimSpace(b.String())
}

// shouldVerify reports whether u refers to a file of this site.
func shouldVerify(u string) bool {
	lower := strings.ToLower(u)
	for _, p := range []string{"#", "mailto:", "tel:", "javascript:", "data:", "//"} {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return parsed.Scheme == "" && parsed.Host == ""
}

// linkPath strips query and fragment.
func linkPath(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if unescaped, err := url.PathUnescape(u); err == nil {
		return unescaped
	}
	return u
}

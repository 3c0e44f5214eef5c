package urlpath

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// assetAttrs lists element/attribute pairs that reference static files.
var assetAttrs = map[string]string{
	"link":   "href",
	"script": "src",
	"img":    "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
}

// RewriteHTML applies the base path to site-rooted references in rendered
// HTML. Anchor hrefs additionally get the locale prefix. References that are
// relative, protocol-relative, absolute or already carry the base path are
// left alone.
func (r *Resolver) RewriteHTML(doc, locale string) (string, error) {
	if r.basePath == "" && r.IsDefaultLocale(locale) {
		return doc, nil
	}

	var out bytes.Buffer
	out.Grow(len(doc) + len(doc)/16)
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return out.String(), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			raw := z.Raw()
			tok := z.Token()
			if r.rewriteToken(&tok, locale) {
				out.WriteString(tok.String())
			} else {
				out.Write(raw)
			}
		default:
			out.Write(z.Raw())
		}
	}
}

func (r *Resolver) rewriteToken(tok *html.Token, locale string) bool {
	name := tok.Data
	attr, isAsset := assetAttrs[name]
	if name == "a" {
		attr = "href"
	} else if !isAsset {
		return false
	}

	changed := false
	for i, a := range tok.Attr {
		if a.Namespace != "" || !strings.EqualFold(a.Key, attr) || !r.rewritable(a.Val) {
			continue
		}
		if name == "a" && r.hasLocalePrefix(a.Val, locale) {
			continue
		}
		if name == "a" {
			tok.Attr[i].Val = r.ApplyLocalePath(a.Val, locale)
		} else {
			tok.Attr[i].Val = r.ApplyBasePath(a.Val)
		}
		changed = true
	}
	return changed
}

func (r *Resolver) rewritable(v string) bool {
	if !strings.HasPrefix(v, "/") || strings.HasPrefix(v, "//") {
		return false
	}
	if r.basePath != "" && (v == r.basePath || strings.HasPrefix(v, r.basePath+"/")) {
		return false
	}
	return true
}

// hasLocalePrefix reports whether v already starts with the locale segment
// that ApplyLocalePath would add.
func (r *Resolver) hasLocalePrefix(v, locale string) bool {
	prefix := localePrefix(r, locale)
	return prefix != "" && (v == prefix || strings.HasPrefix(v, prefix+"/"))
}

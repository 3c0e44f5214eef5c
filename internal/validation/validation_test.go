package validation

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func site(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fsys, "/out/"+name, []byte(body), 0o644))
	}
	return fsys
}

func messages(issues []Issue) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.File+": "+i.Message)
	}
	return out
}

func TestValidate_MissingOutputStopsChain(t *testing.T) {
	r := Validate(context.Background(), afero.NewMemMapFs(), "/out", "")
	require.Len(t, r.Issues, 1)
	require.Equal(t, SeverityError, r.Issues[0].Severity)
	require.Contains(t, r.Issues[0].Message, "does not exist")
	require.True(t, r.HasErrors())
}

func TestValidate_NoHTML(t *testing.T) {
	r := Validate(context.Background(), site(t, map[string]string{"logo.png": "x"}), "/out", "")
	require.Equal(t, []string{": output contains no HTML files"}, messages(r.Errors()))
}

func TestValidate_CleanSite(t *testing.T) {
	fsys := site(t, map[string]string{
		"index.html": `<html><head><link rel="stylesheet" href="/docs/site.css?v=1"><script src="/docs/app.js"></script></head>
<body><a href="/docs/guide">Guide</a><a href="/docs/api/">API</a><a href="#top">top</a>
<a href="https://example.com/x">ext</a><a href="mailto:a@b.c">mail</a><img src="img/logo.png"></body></html>`,
		"guide.html":     `<a href="/docs/">home</a>`,
		"api/index.html": `<a href="../guide.html">guide</a>`,
		"site.css":       "body{}",
		"app.js":         "",
		"img/logo.png":   "png",
	})
	r := Validate(context.Background(), fsys, "/out", "/docs")
	require.Empty(t, r.Issues, messages(r.Issues))
	require.Equal(t, 3, r.Pages)
	require.False(t, r.HasErrors())
}

func TestValidate_ReportsBrokenReferences(t *testing.T) {
	fsys := site(t, map[string]string{
		"index.html": `<html><head><link rel="stylesheet" href="/site.css"><script src="/missing.js"></script></head>
<body><img src="/img/none.png"><a href="/nowhere">x</a><a href="/empty/">y</a><a href="/other-site/x">z</a></body></html>`,
		"empty/readme.txt": "no index here",
	})
	r := Validate(context.Background(), fsys, "/out", "")

	require.Equal(t, []string{
		"index.html: missing stylesheet asset /site.css",
		"index.html: missing script asset /missing.js",
	}, messages(r.Errors()))
	require.Equal(t, []string{
		"index.html: missing image or media /img/none.png",
		"index.html: broken link /nowhere",
		"index.html: link /empty/ points to a directory without index.html",
		"index.html: broken link /other-site/x",
	}, messages(r.Warnings()))

	var buf bytes.Buffer
	_, err := r.WriteTo(&buf)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(buf.String(), "1 page(s) checked, 2 error(s), 4 warning(s)\n"))
}

func TestValidate_IgnoresLinksOutsideBasePath(t *testing.T) {
	fsys := site(t, map[string]string{"index.html": `<a href="/elsewhere/page">x</a>`})
	r := Validate(context.Background(), fsys, "/out", "/docs")
	require.Empty(t, r.Issues)
}

func TestExtractLinks(t *testing.T) {
	links, err := ExtractLinks(strings.NewReader(`<a href="/a"> A <b>text</b></a><img src="x.png" alt="X"><link rel="icon" href="/f.ico"><p>no</p>`))
	require.NoError(t, err)
	require.Len(t, links, 3)
	require.Equal(t, "Atext", links[0].Text)
	require.Equal(t, "img", links[1].Tag)
	require.False(t, links[2].IsStylesheet())
}

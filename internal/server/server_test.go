package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/metrics"
)

func siteFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/out/index.html":       "<h1>Home</h1>",
		"/out/guide/index.html": "<h1>Guide</h1>",
		"/out/css/site.css":     "body{}",
		"/out/empty/.keep":      "",
	}
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	return fs
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_ServesPagesAndAssets(t *testing.T) {
	h := New(Options{Fs: siteFs(t), OutputDir: "/out"}).Handler()

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Home")
	require.Equal(t, "no-cache, must-revalidate", rec.Header().Get("Cache-Control"))

	rec = get(t, h, "/guide/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Guide")

	rec = get(t, h, "/css/site.css?v=abc")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
}

func TestServer_NotFoundIsClassified(t *testing.T) {
	h := New(Options{Fs: siteFs(t), OutputDir: "/out"}).Handler()

	for _, target := range []string{"/missing.html", "/empty/"} {
		rec := get(t, h, target)
		require.Equal(t, http.StatusNotFound, rec.Code, target)

		var body foundation.HTTPErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "page not found", body.Error)
		require.Equal(t, string(foundation.CategoryNotFound), body.Code)
	}
}

func TestServer_RejectsWrites(t *testing.T) {
	h := New(Options{Fs: siteFs(t), OutputDir: "/out"}).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	rec.IncRebuildDropped()

	h := New(Options{Fs: siteFs(t), OutputDir: "/out", Registry: reg}).Handler()
	res := get(t, h, MetricsPath)
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "rebuilds_dropped_total")
}

func TestListen_FindsNextFreePort(t *testing.T) {
	ctx := context.Background()
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	ln, got, err := Listen(ctx, "127.0.0.1", port, 20)
	require.NoError(t, err)
	defer ln.Close()
	require.Greater(t, got, port)
	require.LessOrEqual(t, got, port+19)
}

func TestListen_Exhausted(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := busy.Addr().(*net.TCPAddr).Port

	_, _, err = Listen(context.Background(), "127.0.0.1", port, 1)
	require.Error(t, err)
	require.True(t, foundation.HasCategory(err, foundation.CategoryResource))
	c, ok := foundation.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, fmt.Sprintf("exhausted 1 candidate ports starting at %d", port), c.Message())
	require.Equal(t, 9, foundation.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	ln, _, err := Listen(context.Background(), "127.0.0.1", 0, 1)
	require.NoError(t, err)

	srv := New(Options{Fs: siteFs(t), OutputDir: "/out"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	addr := ln.Addr().String()
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "<h1>Home</h1>"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

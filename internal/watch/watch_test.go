package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/chloroplast/internal/build"
	"git.home.luguber.info/inful/chloroplast/internal/metrics"
)

type fakeTarget struct {
	mu      sync.Mutex
	full    int
	files   []string
	release chan struct{}
}

func (f *fakeTarget) wait() {
	if f.release != nil {
		<-f.release
	}
}

func (f *fakeTarget) Build(context.Context) (*build.Result, error) {
	f.wait()
	f.mu.Lock()
	f.full++
	f.mu.Unlock()
	return &build.Result{Status: build.StatusSuccess}, nil
}

func (f *fakeTarget) BuildFile(_ context.Context, path string) (*build.Result, error) {
	f.wait()
	f.mu.Lock()
	f.files = append(f.files, path)
	f.mu.Unlock()
	return &build.Result{Status: build.StatusSuccess}, nil
}

func (f *fakeTarget) snapshot() (int, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.full, append([]string(nil), f.files...)
}

type countingRecorder struct {
	metrics.NoopRecorder
	dropped atomic.Int32
}

func (c *countingRecorder) IncRebuildDropped() { c.dropped.Add(1) }

func TestRebuilder_DropsWhileRebuilding(t *testing.T) {
	target := &fakeTarget{release: make(chan struct{})}
	rec := &countingRecorder{}
	r := NewRebuilder(target, rec)

	require.Equal(t, StateIdle, r.State())
	require.True(t, r.RebuildFile(context.Background(), "/site/source/a.md"))
	require.Equal(t, StateRebuilding, r.State())

	require.False(t, r.RebuildFile(context.Background(), "/site/source/b.md"))
	require.False(t, r.RebuildAll(context.Background()))
	require.Equal(t, int32(2), rec.dropped.Load())

	close(target.release)
	r.Wait()
	require.Equal(t, StateIdle, r.State())

	full, files := target.snapshot()
	require.Zero(t, full)
	require.Equal(t, []string{"/site/source/a.md"}, files)
}

func TestRebuilder_AcceptsAfterCompletion(t *testing.T) {
	target := &fakeTarget{}
	r := NewRebuilder(target, nil)

	var completed atomic.Int32
	r.OnComplete = func(res *build.Result, err error) {
		assert.NoError(t, err)
		assert.Equal(t, build.StatusSuccess, res.Status)
		completed.Add(1)
	}

	require.True(t, r.RebuildAll(context.Background()))
	r.Wait()
	require.True(t, r.RebuildFile(context.Background(), "/x.md"))
	r.Wait()

	full, files := target.snapshot()
	require.Equal(t, 1, full)
	require.Equal(t, []string{"/x.md"}, files)
	require.Equal(t, int32(2), completed.Load())
}

func TestShouldIgnoreEvent(t *testing.T) {
	ignored := []string{"/s/.hidden.md", "/s/page.md~", "/s/.page.md.swp", "/s/page.swx", "/s/#page.md#", "/s/Thumbs.db"}
	for _, p := range ignored {
		require.True(t, shouldIgnoreEvent(p), p)
	}
	for _, p := range []string{"/s/page.md", "/s/img/logo.png", "/s/templates/Default.html"} {
		require.False(t, shouldIgnoreEvent(p), p)
	}
}

func TestWatcher_SkipsOutputAndHiddenDirs(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"source/guide", "source/.git", "out/docs", "templates"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	readme := filepath.Join(root, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# x"), 0o600))

	w, err := New([]string{
		filepath.Join(root, "source"),
		filepath.Join(root, "templates"),
		readme,
		filepath.Join(root, "missing"),
	}, filepath.Join(root, "out"), NewRebuilder(&fakeTarget{}, nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.ElementsMatch(t, []string{
		filepath.Join(root, "source"),
		filepath.Join(root, "source", "guide"),
		filepath.Join(root, "templates"),
		root,
	}, w.WatchList())
}

func TestWatcher_HandleEvent(t *testing.T) {
	root := t.TempDir()
	target := &fakeTarget{}
	r := NewRebuilder(target, nil)
	w, err := New([]string{root}, filepath.Join(root, "out"), r)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	ctx := context.Background()

	page := filepath.Join(root, "page.md")
	w.handleEvent(ctx, fsnotify.Event{Name: page, Op: fsnotify.Write})
	r.Wait()
	w.handleEvent(ctx, fsnotify.Event{Name: page, Op: fsnotify.Chmod})
	w.handleEvent(ctx, fsnotify.Event{Name: filepath.Join(root, ".page.md.swp"), Op: fsnotify.Write})
	w.handleEvent(ctx, fsnotify.Event{Name: filepath.Join(root, "out", "page.html"), Op: fsnotify.Write})
	r.Wait()
	w.handleEvent(ctx, fsnotify.Event{Name: page, Op: fsnotify.Remove})
	r.Wait()

	sub := filepath.Join(root, "guide")
	require.NoError(t, os.Mkdir(sub, 0o755))
	w.handleEvent(ctx, fsnotify.Event{Name: sub, Op: fsnotify.Create})
	r.Wait()
	require.Contains(t, w.WatchList(), sub)

	full, files := target.snapshot()
	require.Equal(t, []string{page}, files)
	require.Equal(t, 1, full)
}

func TestScheduler_RunsFullRebuilds(t *testing.T) {
	target := &fakeTarget{}
	r := NewRebuilder(target, nil)
	s, err := NewScheduler(r)
	require.NoError(t, err)

	id, err := s.Every(context.Background(), 20*time.Millisecond)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	s.Start()
	require.Eventually(t, func() bool {
		full, _ := target.snapshot()
		return full >= 1
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
	r.Wait()
}

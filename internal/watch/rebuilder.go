package watch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/chloroplast/internal/build"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
	"git.home.luguber.info/inful/chloroplast/internal/metrics"
	"git.home.luguber.info/inful/chloroplast/internal/observability"
)

// State is the rebuild gate's state.
type State int32

const (
	StateIdle State = iota
	StateRebuilding
)

func (s State) String() string {
	if s == StateRebuilding {
		return "rebuilding"
	}
	return "idle"
}

// Target is what the rebuilder drives; *build.Builder satisfies it.
type Target interface {
	Build(ctx context.Context) (*build.Result, error)
	BuildFile(ctx context.Context, path string) (*build.Result, error)
}

// Rebuilder lets at most one rebuild run at a time. A request arriving while
// a rebuild is running is dropped, not queued.
type Rebuilder struct {
	target   Target
	recorder metrics.Recorder

	state atomic.Int32
	wg    sync.WaitGroup

	// OnComplete, when set, is called after each finished rebuild.
	OnComplete func(res *build.Result, err error)
}

// NewRebuilder creates an idle rebuilder.
func NewRebuilder(target Target, recorder metrics.Recorder) *Rebuilder {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Rebuilder{target: target, recorder: recorder}
}

// State reports whether a rebuild is running.
func (r *Rebuilder) State() State {
	return State(r.state.Load())
}

// RebuildFile starts a single-file rebuild in the background. It returns
// false when the request was dropped.
func (r *Rebuilder) RebuildFile(ctx context.Context, path string) bool {
	return r.start(ctx, path, func(ctx context.Context) (*build.Result, error) {
		return r.target.BuildFile(ctx, path)
	})
}

// RebuildAll starts a full rebuild in the background. It returns false when
// the request was dropped.
func (r *Rebuilder) RebuildAll(ctx context.Context) bool {
	return r.start(ctx, "", r.target.Build)
}

// Wait blocks until the running rebuild, if any, has finished.
func (r *Rebuilder) Wait() {
	r.wg.Wait()
}

func (r *Rebuilder) tryEnter() bool {
	return r.state.CompareAndSwap(int32(StateIdle), int32(StateRebuilding))
}

func (r *Rebuilder) leave() {
	r.state.Store(int32(StateIdle))
}

func (r *Rebuilder) start(ctx context.Context, path string, run func(context.Context) (*build.Result, error)) bool {
	if !r.tryEnter() {
		r.recorder.IncRebuildDropped()
		observability.InfoContext(ctx, "Rebuild in progress, change dropped", logfields.Path(path))
		return false
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.leave()

		start := time.Now()
		if path == "" {
			observability.InfoContext(ctx, "Rebuilding site")
		} else {
			observability.InfoContext(ctx, "Change detected; rebuilding", logfields.Path(path))
		}
		res, err := run(ctx)
		switch {
		case errors.Is(err, build.ErrOutsideSite):
			observability.DebugContext(ctx, "Changed file is not part of the site", logfields.Path(path))
		case err != nil:
			observability.WarnContext(ctx, "Rebuild failed", logfields.Error(err))
		default:
			observability.DebugContext(ctx, "Rebuild complete",
				slog.String("status", string(res.Status)), logfields.Since(start))
		}
		if r.OnComplete != nil {
			r.OnComplete(res, err)
		}
	}()
	return true
}

package resolver

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	bundleadapter "github.com/timeax/fortiplugin-bundle-adapter"
)

// Embedding binds one UI surface to a composer. Mount starts an asynchronous
// resolution; Render reports the fallback while it is in flight, the error
// hook's output on failure, and the resolved component once settled.
//
// Cancellation is cooperative: each Mount bumps a generation counter, and a
// result arriving for an older generation is discarded rather than applied.
type Embedding struct {
	composer *Composer

	// Fallback renders while resolution is pending. OnError renders after
	// a failed resolution. Both must be set before the first Mount.
	Fallback func() *bundleadapter.Element
	OnError  func(error) *bundleadapter.Element

	mu         sync.Mutex
	generation uint64
	pending    bool
	handle     *RenderHandle
	err        error
	settled    chan struct{}
}

// NewEmbedding binds an embedding to a composer.
func NewEmbedding(c *Composer) *Embedding {
	return &Embedding{composer: c}
}

// Mount starts resolving fileRef. A Mount issued while a previous resolution
// is still in flight supersedes it; the superseded result is discarded when
// it arrives.
func (e *Embedding) Mount(ctx context.Context, fileRef string, overrides ...Config) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.pending = true
	e.handle = nil
	e.err = nil
	settled := make(chan struct{})
	e.settled = settled
	e.mu.Unlock()

	go func() {
		handle, err := e.composer.Resolve(ctx, fileRef, overrides...)

		e.mu.Lock()
		if gen == e.generation {
			e.pending = false
			e.handle = handle
			e.err = err
		} else {
			Logger().Debug("discarding stale resolution",
				zap.String("file", fileRef),
				zap.Uint64("generation", gen))
		}
		e.mu.Unlock()
		close(settled)
	}()
}

// Wait blocks until the most recent Mount settles or ctx expires. An
// embedding that was never mounted returns immediately.
func (e *Embedding) Wait(ctx context.Context) error {
	e.mu.Lock()
	settled := e.settled
	e.mu.Unlock()
	if settled == nil {
		return nil
	}
	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Render produces the current element for the surface. It never panics; a
// render failure routes through OnError.
func (e *Embedding) Render(props bundleadapter.Props) (el *bundleadapter.Element) {
	e.mu.Lock()
	pending, handle, err := e.pending, e.handle, e.err
	e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			el = e.renderError(fmt.Errorf("render panicked: %v", r))
		}
	}()

	switch {
	case pending:
		return e.renderFallback()
	case err != nil:
		return e.renderError(err)
	case handle != nil:
		return handle.Render(props)
	default:
		// Never mounted.
		return e.renderFallback()
	}
}

func (e *Embedding) renderFallback() *bundleadapter.Element {
	if e.Fallback != nil {
		return e.Fallback()
	}
	return nil
}

func (e *Embedding) renderError(err error) *bundleadapter.Element {
	if e.OnError != nil {
		return e.OnError(err)
	}
	Logger().Warn("embedding resolution failed with no error hook", zap.Error(err))
	return nil
}

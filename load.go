package loadwhatever

import (
	"context"
	"fmt"
)

// Future is the eventual result of Load.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

// Load reads and parses the file at path on a new goroutine.
// Every failure, including an empty path, is delivered through the returned
// Future. Producers exported by scripts may return a *script.Pending, which is
// awaited.
func Load(path string, opts ...Option) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if p := recover(); p != nil {
				f.value, f.err = nil, fmt.Errorf("loadwhatever: panic while loading %s: %v", path, p)
			}
		}()

		f.value, f.err = load(path, true, opts)
	}()

	return f
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the load finishes and returns its outcome.
func (f *Future) Result() (any, error) {
	<-f.done
	return f.value, f.err
}

// Wait is like Result but gives up when ctx is done. Giving up does not stop
// the load.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

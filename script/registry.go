package script

import (
	"io/fs"
	"path/filepath"
	"sync"
)

// Registry is an Evaluator backed by modules registered by the host
// application. Paths are matched after conversion to absolute form.
type Registry struct {
	mu       sync.RWMutex
	modules  map[string]Module
	fallback Evaluator
}

// NewRegistry creates an empty Registry. Paths that are not registered are
// passed to fallback; with a nil fallback they fail with fs.ErrNotExist.
func NewRegistry(fallback Evaluator) *Registry {
	return &Registry{
		modules:  make(map[string]Module),
		fallback: fallback,
	}
}

// Register makes path evaluate to value.
func (r *Registry) Register(path string, value any) error {
	return r.store(path, Module{Value: value})
}

// RegisterFunc makes path evaluate to a producer. fn runs on every load and
// may return a *Pending (see Async).
func (r *Registry) RegisterFunc(path string, fn func() (any, error)) error {
	return r.store(path, Module{Call: fn})
}

func (r *Registry) store(path string, m Module) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[abs] = m
	return nil
}

// Evaluate returns the module registered for path.
func (r *Registry) Evaluate(path string) (Module, error) {
	r.mu.RLock()
	m, ok := r.modules[filepath.Clean(path)]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	if r.fallback != nil {
		return r.fallback.Evaluate(path)
	}
	return Module{}, &fs.PathError{Op: "evaluate", Path: path, Err: fs.ErrNotExist}
}

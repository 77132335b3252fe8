package script

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/spf13/afero"
)

// Options configures an Engine.
type Options struct {
	// Fs is the filesystem scripts are read from. Nil means the OS filesystem.
	Fs afero.Fs
}

// Engine evaluates CommonJS-style scripts on a single goja runtime.
// Modules are cached by absolute path for the lifetime of the Engine, so a
// script's top-level code runs once. Safe for concurrent use.
type Engine struct {
	fs afero.Fs

	mu      sync.Mutex
	vm      *goja.Runtime
	modules map[string]*goja.Object
}

// NewEngine creates an Engine with an empty module cache.
func NewEngine(opts Options) *Engine {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Engine{
		fs:      fsys,
		vm:      goja.New(),
		modules: make(map[string]*goja.Object),
	}
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-wide Engine reading from the OS filesystem.
// Its module cache lives as long as the process.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = NewEngine(Options{})
	})
	return defaultEngine
}

// Evaluate loads the module at path and returns its export. path is cleaned
// before it is used as the cache key.
func (e *Engine) Evaluate(path string) (Module, error) {
	path = filepath.Clean(path)

	e.mu.Lock()
	defer e.mu.Unlock()

	module, err := e.require(path)
	if err != nil {
		return Module{}, err
	}

	exports := module.Get("exports")
	if fn, ok := goja.AssertFunction(exports); ok {
		return Module{Call: func() (any, error) {
			return e.call(path, fn)
		}}, nil
	}
	return Module{Value: export(exports)}, nil
}

// call invokes an exported function with no arguments.
func (e *Engine) call(path string, fn goja.Callable) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ret, err := fn(goja.Undefined())
	if err != nil {
		return nil, err
	}
	if p, ok := ret.Export().(*goja.Promise); ok {
		return e.pending(path, p), nil
	}
	return export(ret), nil
}

// pending wraps a promise. Jobs queued by the call have already run when it
// returned, so the promise is either settled now or never will be.
func (e *Engine) pending(path string, p *goja.Promise) *Pending {
	return NewPending(func() (any, error) {
		e.mu.Lock()
		defer e.mu.Unlock()

		switch p.State() {
		case goja.PromiseStateFulfilled:
			return export(p.Result()), nil
		case goja.PromiseStateRejected:
			return nil, &RejectionError{Path: path, Reason: p.Result().String()}
		default:
			return nil, ErrPromiseUnsettled
		}
	})
}

// require returns the cached module object for path, loading it on a miss.
// Callers must hold e.mu.
func (e *Engine) require(path string) (*goja.Object, error) {
	if module, ok := e.modules[path]; ok {
		return module, nil
	}

	src, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil, err
	}

	module := e.vm.NewObject()
	if filepath.Ext(path) == ".json" {
		value, err := e.parseJSON(src)
		if err != nil {
			return nil, err
		}
		_ = module.Set("exports", value)
		e.modules[path] = module
		return module, nil
	}

	exports := e.vm.NewObject()
	_ = module.Set("exports", exports)

	// Cached before running so that require cycles see partial exports.
	e.modules[path] = module
	if err := e.run(path, src, module, exports); err != nil {
		delete(e.modules, path)
		return nil, err
	}
	return module, nil
}

func (e *Engine) parseJSON(src []byte) (goja.Value, error) {
	parse, ok := goja.AssertFunction(e.vm.Get("JSON").ToObject(e.vm).Get("parse"))
	if !ok {
		return nil, fmt.Errorf("script: JSON.parse is not callable")
	}
	return parse(goja.Undefined(), e.vm.ToValue(string(src)))
}

func (e *Engine) run(path string, src []byte, module, exports *goja.Object) error {
	if bytes.HasPrefix(src, []byte("#!")) {
		src = append([]byte("//"), src...)
	}

	var b strings.Builder
	b.WriteString("(function (exports, require, module, __filename, __dirname) {")
	b.Write(src)
	b.WriteString("\n})")

	wrapper, err := e.vm.RunScript(path, b.String())
	if err != nil {
		return err
	}
	fn, ok := goja.AssertFunction(wrapper)
	if !ok {
		return fmt.Errorf("script: %s did not compile to a function", path)
	}

	dir := filepath.Dir(path)
	_, err = fn(goja.Undefined(),
		exports,
		e.requireFunc(dir),
		module,
		e.vm.ToValue(path),
		e.vm.ToValue(dir),
	)
	return err
}

// requireFunc builds the require function handed to a module in dir.
func (e *Engine) requireFunc(dir string) goja.Value {
	return e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).String()

		path, err := e.resolveID(dir, id)
		if err != nil {
			panic(e.vm.NewGoError(err))
		}
		module, err := e.require(path)
		if err != nil {
			if ex, ok := err.(*goja.Exception); ok {
				panic(ex.Value())
			}
			panic(e.vm.NewGoError(err))
		}
		return module.Get("exports")
	})
}

// resolveID maps a require id to a file. Only relative and absolute ids are
// supported; each is tried as-is, then with .js, then with .json.
func (e *Engine) resolveID(dir, id string) (string, error) {
	relative := strings.HasPrefix(id, "./") || strings.HasPrefix(id, "../")
	if !relative && !filepath.IsAbs(id) {
		return "", fmt.Errorf("cannot find module %q: only relative or absolute paths can be required", id)
	}

	base := filepath.Clean(id)
	if relative {
		base = filepath.Join(dir, id)
	}
	for _, candidate := range []string{base, base + ".js", base + ".json"} {
		if _, ok := e.modules[candidate]; ok {
			return candidate, nil
		}
		if info, err := e.fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cannot find module %q from %s: %w", id, dir, fs.ErrNotExist)
}

// export converts a runtime value to its Go form. undefined and null become nil.
func export(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

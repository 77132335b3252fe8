package loadwhatever

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gakimball/load-whatever/internal/cson"
	"github.com/gakimball/load-whatever/internal/fileread"
	"github.com/gakimball/load-whatever/internal/resolve"
	"github.com/gakimball/load-whatever/script"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var supports = [...]string{"json", "yaml", "yml", "cson", "js"}

// Supports returns the identifiers of the supported formats, in order:
// json, yaml, yml, cson, js. Each call returns a fresh copy. The list is
// informational; loading does not consult it.
func Supports() []string {
	s := make([]string, len(supports))
	copy(s, supports[:])
	return s
}

// Parser parses the raw contents of a file into a generic value.
type Parser interface {
	Parse(data []byte) (any, error)
}

// ParserFunc is a function adapter for Parser interface.
type ParserFunc func(data []byte) (any, error)

func (f ParserFunc) Parse(data []byte) (any, error) {
	return f(data)
}

// Built-in parsers, usable with WithParser.
var (
	JSON Parser = ParserFunc(parseJSON) // Strict JSON
	YAML Parser = ParserFunc(parseYAML) // First YAML document
	CSON Parser = ParserFunc(parseCSON) // Indented objects, yes/no booleans, relaxed JSON
	TOML Parser = ParserFunc(parseTOML) // Not mapped to any extension by default
)

func parseJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func parseYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func parseCSON(data []byte) (any, error) {
	var v any
	if err := cson.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func parseTOML(data []byte) (any, error) {
	var v any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// request is a single load in flight.
type request struct {
	path     string // As given by the caller
	resolved string // Absolute
	async    bool   // Whether pending script results may be awaited
	opts     *options
}

func (r *request) read() ([]byte, error) {
	return fileread.ReadFile(r.resolved, r.opts.read)
}

// strategy loads a request into a value.
type strategy interface {
	name() string
	load(r *request) (any, error)
}

// formats maps extensions to strategies. Extensions not listed here use
// ambiguousStrategy.
var formats = []struct {
	ext      string
	strategy strategy
}{
	{".js", moduleStrategy{}},
	{".json", moduleStrategy{}},
	{".yml", parseStrategy{label: "yaml", parser: YAML}},
	{".yaml", parseStrategy{label: "yaml", parser: YAML}},
	{".cson", parseStrategy{label: "cson", parser: CSON}},
}

// selectStrategy picks the strategy for ext. Per-call parsers win over the
// built-in table.
func selectStrategy(ext string, parsers map[string]Parser) strategy {
	if p, ok := parsers[ext]; ok {
		return parseStrategy{label: "custom" + ext, parser: p}
	}
	for _, f := range formats {
		if f.ext == ext {
			return f.strategy
		}
	}
	return ambiguousStrategy{}
}

// load is the core shared by Load and LoadSync.
func load(path string, async bool, opts []Option) (any, error) {
	resolved, err := resolve.Abs(path)
	if errors.Is(err, resolve.ErrEmptyPath) {
		return nil, ErrInvalidArgument
	}
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)

	s := selectStrategy(resolve.Ext(path), o.parsers)
	o.logger.Trace("loading file", "path", path, "resolved", resolved, "strategy", s.name(), "async", async)

	return s.load(&request{
		path:     path,
		resolved: resolved,
		async:    async,
		opts:     o,
	})
}

// moduleStrategy evaluates the file as a script module.
type moduleStrategy struct{}

func (moduleStrategy) name() string { return "module" }

func (moduleStrategy) load(r *request) (any, error) {
	m, err := r.opts.scripts().Evaluate(r.resolved)
	if err != nil {
		return nil, err
	}
	if m.Call == nil {
		return m.Value, nil
	}

	v, err := invoke(m.Call)
	if err != nil {
		return nil, &ModuleExecutionError{Path: r.resolved, Err: err}
	}

	pending, ok := v.(*script.Pending)
	if !ok {
		return v, nil
	}
	if !r.async {
		return nil, &AsyncNotSupportedError{Path: r.resolved}
	}
	r.opts.logger.Trace("awaiting asynchronous result", "resolved", r.resolved)
	return pending.Await()
}

// invoke calls a module producer, turning a panic into an error.
func invoke(call func() (any, error)) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			v, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	return call()
}

// parseStrategy reads the file and hands it to a parser. Errors are returned
// unchanged.
type parseStrategy struct {
	label  string
	parser Parser
}

func (s parseStrategy) name() string { return s.label }

func (s parseStrategy) load(r *request) (any, error) {
	data, err := r.read()
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(data)
}

// ambiguousStrategy tries strict JSON, then YAML.
type ambiguousStrategy struct{}

func (ambiguousStrategy) name() string { return "ambiguous" }

func (ambiguousStrategy) load(r *request) (any, error) {
	data, err := r.read()
	if err != nil {
		return nil, err
	}

	v, jsonErr := parseJSON(data)
	if jsonErr == nil {
		return v, nil
	}
	r.opts.logger.Trace("not JSON, trying YAML", "path", r.path)

	v, yamlErr := parseYAML(data)
	if yamlErr == nil {
		return v, nil
	}
	return nil, &FormatError{Path: r.path, JSONErr: jsonErr, YAMLErr: yamlErr}
}

package loadwhatever

import (
	"github.com/gakimball/load-whatever/internal/fileread"
	"github.com/gakimball/load-whatever/script"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// Option configures a single Load or LoadSync call.
type Option func(*options)

// options holds the per-call settings built from Option values.
type options struct {
	read      fileread.Options // Passed through to the file-read primitive
	evaluator script.Evaluator
	parsers   map[string]Parser
	logger    hclog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = hclog.NewNullLogger()
	}
	return o
}

// scripts returns the evaluator for module loads. With WithFs and no
// WithEvaluator, each call gets a fresh Engine over that filesystem.
func (o *options) scripts() script.Evaluator {
	switch {
	case o.evaluator != nil:
		return o.evaluator
	case o.read.Fs != nil:
		return script.NewEngine(script.Options{Fs: o.read.Fs})
	default:
		return script.Default()
	}
}

// WithEncoding sets the text encoding files are read with (e.g. "latin1",
// "utf-16le"). Contents are decoded to UTF-8 before parsing. Names are WHATWG
// labels, so "latin1" (like "iso-8859-1") means windows-1252: bytes 0x80-0x9F
// decode to typographic characters such as "€", not to C1 control codes.
func WithEncoding(name string) Option {
	return func(o *options) {
		o.read.Encoding = name
	}
}

// WithFs reads files from fsys instead of the OS filesystem. Unless
// WithEvaluator is also given, scripts are evaluated from fsys too, by an
// Engine scoped to the call. To keep the module cache across calls, pass
// WithEvaluator(script.NewEngine(script.Options{Fs: fsys})).
func WithFs(fsys afero.Fs) Option {
	return func(o *options) {
		o.read.Fs = fsys
	}
}

// WithEvaluator replaces the script evaluator used for .js and .json files.
func WithEvaluator(e script.Evaluator) Option {
	return func(o *options) {
		o.evaluator = e
	}
}

// WithParser maps ext (including the leading dot, matched case-sensitively) to
// p for this call. It takes precedence over the built-in extensions.
func WithParser(ext string, p Parser) Option {
	return func(o *options) {
		if o.parsers == nil {
			o.parsers = make(map[string]Parser)
		}
		o.parsers[ext] = p
	}
}

// WithLogger sends trace output about path resolution and strategy selection
// to l. The default discards it.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

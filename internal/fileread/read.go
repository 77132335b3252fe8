// Package fileread is the buffered file-read primitive shared by the load strategies.
package fileread

import (
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/htmlindex"
)

// Options are caller-supplied read options. They are passed through from the
// loader untouched.
type Options struct {
	// Fs is the filesystem to read from. Nil means the OS filesystem.
	Fs afero.Fs

	// Encoding names the text encoding of the file (WHATWG label, e.g. "latin1",
	// "utf-16le"). Contents are decoded to UTF-8. Empty means no decoding.
	// "latin1" resolves to windows-1252 under WHATWG rules.
	Encoding string
}

// FS returns the configured filesystem, defaulting to the OS filesystem.
func (o Options) FS() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

// ReadFile reads the whole file at path.
// Filesystem errors are returned unchanged.
func ReadFile(path string, opts Options) ([]byte, error) {
	data, err := afero.ReadFile(opts.FS(), path)
	if err != nil {
		return nil, err
	}
	if opts.Encoding == "" {
		return data, nil
	}

	enc, err := htmlindex.Get(opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", opts.Encoding, err)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s as %s: %w", path, opts.Encoding, err)
	}
	return decoded, nil
}

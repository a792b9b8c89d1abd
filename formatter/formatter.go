package formatter

import "io"

// Formatter serializes Go values to and from a stream.
//
// Implementations are stateless and safe for concurrent use.
type Formatter interface {
	// Name returns the unique name used for explicit selection.
	Name() string

	// Extensions returns the file extensions handled, without leading dots
	// (e.g. "yaml", "yml", "tar.gz").
	Extensions() []string

	// Load decodes the content of r into dst.
	Load(r io.Reader, dst any) error

	// Dump encodes v into w.
	Dump(w io.Writer, v any) error
}

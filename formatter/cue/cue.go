// Package cue provides a CUE formatter for the formatter registry.
//
// Loading compiles the document and decodes the evaluated value into the
// destination. Dumping converts a Go value into a concrete CUE value and
// prints it in canonical CUE syntax.
package cue

import (
	"fmt"
	"io"
	"reflect"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"

	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/formatter"
)

// Formatter implements formatter.Formatter for ".cue" files.
type Formatter struct{}

var _ formatter.Formatter = Formatter{}

// New returns the "cue" formatter.
func New() Formatter { return Formatter{} }

// Name returns "cue".
func (Formatter) Name() string { return "cue" }

// Extensions returns the handled extensions.
func (Formatter) Extensions() []string { return []string{"cue"} }

// Load compiles the CUE document in r and decodes it into dst, which must be
// a non-nil pointer.
func (Formatter) Load(r io.Reader, dst any) error {
	if err := checkTarget(dst); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "failed to read cue document")
	}

	value := cuecontext.New().CompileBytes(data)
	if err := value.Err(); err != nil {
		return errors.WithContext(
			errors.Wrap(err, errors.CodeFormatFailed, "failed to compile cue document"),
			"error", err.Error(),
		)
	}

	if err := value.Decode(dst); err != nil {
		return errors.WithContext(
			errors.Wrap(err, errors.CodeFormatFailed, "failed to decode cue value"),
			"value_kind", value.Kind().String(),
		)
	}
	return nil
}

// Dump encodes v as a concrete CUE value and writes it in CUE syntax.
func (Formatter) Dump(w io.Writer, v any) error {
	if w == nil {
		return errors.New(errors.CodeInvalidInput, "writer cannot be nil")
	}

	value := cuecontext.New().Encode(v)
	if err := value.Err(); err != nil {
		return errors.Wrap(err, errors.CodeFormatFailed, "failed to encode value as cue")
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return errors.Wrap(err, errors.CodeFormatFailed, "cue value is not concrete")
	}

	data, err := format.Node(value.Syntax(cue.Final(), cue.Concrete(true)))
	if err != nil {
		return errors.Wrap(err, errors.CodeFormatFailed, "failed to format cue value")
	}

	n, err := w.Write(data)
	if err != nil {
		return errors.WithContext(
			errors.Wrap(err, errors.CodeIO, "failed to write cue document"),
			"bytes_written", n,
		)
	}
	return nil
}

func checkTarget(dst any) error {
	if dst == nil {
		return errors.New(errors.CodeInvalidInput, "decode target cannot be nil")
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr {
		return errors.New(errors.CodeInvalidInput, fmt.Sprintf("decode target must be a pointer, got %s", rv.Kind()))
	}
	if rv.IsNil() {
		return errors.New(errors.CodeInvalidInput, "decode target pointer cannot be nil")
	}
	return nil
}

package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmgilman/go/target/errors"
)

type jsonFormatter struct{}

// JSON returns the "json" formatter. Dumps are indented by two spaces.
func JSON() Formatter { return jsonFormatter{} }

func (jsonFormatter) Name() string         { return "json" }
func (jsonFormatter) Extensions() []string { return []string{"json"} }

func (jsonFormatter) Load(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return errors.Wrap(err, errors.CodeFormatFailed, "failed to decode json")
	}
	return nil
}

func (jsonFormatter) Dump(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.CodeFormatFailed, "failed to encode json")
	}
	return nil
}

type yamlFormatter struct{}

// YAML returns the "yaml" formatter.
func YAML() Formatter { return yamlFormatter{} }

func (yamlFormatter) Name() string         { return "yaml" }
func (yamlFormatter) Extensions() []string { return []string{"yaml", "yml"} }

func (yamlFormatter) Load(r io.Reader, dst any) error {
	if err := yaml.NewDecoder(r).Decode(dst); err != nil {
		if err == io.EOF {
			return errors.New(errors.CodeFormatFailed, "failed to decode yaml: empty document")
		}
		return errors.Wrap(err, errors.CodeFormatFailed, "failed to decode yaml")
	}
	return nil
}

func (yamlFormatter) Dump(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.CodeFormatFailed, "failed to encode yaml")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, errors.CodeFormatFailed, "failed to flush yaml")
	}
	return nil
}

type textFormatter struct{}

// Text returns the "text" formatter. Load accepts *string and *[]byte; Dump
// writes strings and byte slices verbatim and anything else through fmt.
func Text() Formatter { return textFormatter{} }

func (textFormatter) Name() string         { return "text" }
func (textFormatter) Extensions() []string { return []string{"txt", "log"} }

func (textFormatter) Load(r io.Reader, dst any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "failed to read text")
	}

	switch d := dst.(type) {
	case *string:
		*d = string(data)
	case *[]byte:
		*d = data
	default:
		return errors.Newf(errors.CodeInvalidInput, "text formatter cannot load into %T", dst)
	}
	return nil
}

func (textFormatter) Dump(w io.Writer, v any) error {
	var err error
	switch d := v.(type) {
	case string:
		_, err = io.WriteString(w, d)
	case []byte:
		_, err = w.Write(d)
	default:
		_, err = fmt.Fprint(w, d)
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "failed to write text")
	}
	return nil
}

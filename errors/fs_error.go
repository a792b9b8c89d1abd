package errors

import (
	"fmt"
	"strings"
)

// fsError is the only implementation of Error.
type fsError struct {
	code           ErrorCode
	op             string
	path           string
	classification ErrorClassification
	message        string
	context        map[string]interface{}
	cause          error
}

// Error renders "[CODE] op path: message: cause", omitting empty parts.
func (e *fsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.code)
	if e.op != "" {
		b.WriteString(" " + e.op)
	}
	if e.path != "" {
		b.WriteString(" " + e.path)
	}
	if e.message != "" {
		if e.op != "" || e.path != "" {
			b.WriteString(":")
		}
		b.WriteString(" " + e.message)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

func (e *fsError) Code() ErrorCode                     { return e.code }
func (e *fsError) Op() string                          { return e.op }
func (e *fsError) Path() string                        { return e.path }
func (e *fsError) Classification() ErrorClassification { return e.classification }
func (e *fsError) Message() string                     { return e.message }
func (e *fsError) Unwrap() error                       { return e.cause }

// Context returns a copy so callers cannot mutate the error.
func (e *fsError) Context() map[string]interface{} {
	return copyContext(e.context)
}

func (e *fsError) clone() *fsError {
	c := *e
	c.context = copyContext(e.context)
	return &c
}

func copyContext(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

package core

import (
	"github.com/jmgilman/go/target/errors"
)

// Mode selects how a file is opened or localized.
type Mode string

const (
	// ModeRead opens for reading.
	ModeRead Mode = "r"
	// ModeWrite creates or truncates for writing.
	ModeWrite Mode = "w"
	// ModeAppend creates or appends.
	ModeAppend Mode = "a"
)

// Valid reports whether m is one of ModeRead, ModeWrite or ModeAppend.
func (m Mode) Valid() bool {
	switch m {
	case ModeRead, ModeWrite, ModeAppend:
		return true
	default:
		return false
	}
}

// Writes reports whether m modifies the file.
func (m Mode) Writes() bool {
	return m == ModeWrite || m == ModeAppend
}

// CheckMode returns errors.CodeInvalidMode if m is not valid.
func CheckMode(m Mode) error {
	if m.Valid() {
		return nil
	}
	return errors.WithContext(
		errors.Newf(errors.CodeInvalidMode, "unknown mode %q, use %q, %q or %q", string(m), ModeRead, ModeWrite, ModeAppend),
		"mode", string(m),
	)
}

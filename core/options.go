package core

import "io/fs"

// Options holds the resolved settings of a mutating operation.
type Options struct {
	// Perm is the mode for the file or directory acted on, nil for default.
	Perm *fs.FileMode
	// DirPerm is the mode for directories created on the way, nil for default.
	DirPerm *fs.FileMode
	// Recursive enables parent creation for Mkdir and tree removal for Remove.
	Recursive bool
	// Silent tolerates "already exists" in Mkdir and "absent" in Remove/Chmod.
	Silent bool
}

// Option configures a mutating operation.
type Option func(*Options)

// NewOptions applies opts on top of the defaults (recursive, silent).
func NewOptions(opts ...Option) Options {
	o := Options{Recursive: true, Silent: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithPerm sets the permission of the file or directory acted on.
func WithPerm(perm fs.FileMode) Option {
	return func(o *Options) { o.Perm = Perm(perm) }
}

// WithPermPtr is WithPerm for an optional value; nil leaves the default.
func WithPermPtr(perm *fs.FileMode) Option {
	return func(o *Options) {
		if perm != nil {
			o.Perm = Perm(*perm)
		}
	}
}

// WithDirPerm sets the permission of directories created along the way.
func WithDirPerm(perm fs.FileMode) Option {
	return func(o *Options) { o.DirPerm = Perm(perm) }
}

// WithDirPermPtr is WithDirPerm for an optional value; nil leaves the default.
func WithDirPermPtr(perm *fs.FileMode) Option {
	return func(o *Options) {
		if perm != nil {
			o.DirPerm = Perm(*perm)
		}
	}
}

// NonRecursive disables parent creation (Mkdir) and tree removal (Remove).
func NonRecursive() Option {
	return func(o *Options) { o.Recursive = false }
}

// Strict makes existing paths fail Mkdir and absent paths fail Remove/Chmod.
func Strict() Option {
	return func(o *Options) { o.Silent = false }
}

// Perm returns a pointer to a copy of m, for optional permission fields.
func Perm(m fs.FileMode) *fs.FileMode {
	return &m
}

// PermOr returns p if set, else def.
func PermOr(p, def *fs.FileMode) *fs.FileMode {
	if p != nil {
		return p
	}
	return def
}

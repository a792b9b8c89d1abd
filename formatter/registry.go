package formatter

import (
	"sort"
	"strings"
	"sync"

	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/internal/pathutil"
)

// Registry holds formatters by name and by extension.
//
// A Registry is safe for concurrent use. Registration is expected at start-up;
// lookups may happen from any goroutine afterwards.
type Registry struct {
	mu         sync.RWMutex
	byName     map[string]Formatter
	defaultKey string
}

// NewRegistry returns a registry containing formatters.
// It panics if two formatters share a name.
func NewRegistry(formatters ...Formatter) *Registry {
	r := &Registry{byName: make(map[string]Formatter)}
	for _, f := range formatters {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
	return r
}

// Builtin returns a new registry with the json, yaml and text formatters.
func Builtin() *Registry {
	return NewRegistry(JSON(), YAML(), Text())
}

// Register adds f. A name that is already taken fails with
// errors.CodeAlreadyExists.
func (r *Registry) Register(f Formatter) error {
	if f == nil || f.Name() == "" {
		return errors.New(errors.CodeInvalidInput, "formatter must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(f.Name())
	if _, ok := r.byName[name]; ok {
		return errors.WithContext(
			errors.Newf(errors.CodeAlreadyExists, "formatter %q is already registered", name),
			"formatter", name,
		)
	}
	r.byName[name] = f
	return nil
}

// SetDefault selects the formatter used when neither name nor extension
// match. An empty name clears the default.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(name)
	if name != "" {
		if _, ok := r.byName[name]; !ok {
			return errors.Newf(errors.CodeNotFound, "formatter %q is not registered", name)
		}
	}
	r.defaultKey = name
	return nil
}

// Lookup returns the formatter registered under name.
func (r *Registry) Lookup(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byName[strings.ToLower(name)]
	return f, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find selects the formatter for an operation on path.
//
// A non-empty name must match a registered formatter exactly. Otherwise the
// formatter with the longest extension matching the basename of path wins,
// falling back to the default formatter.
func (r *Registry) Find(name, path string) (Formatter, error) {
	if name != "" {
		if f, ok := r.Lookup(name); ok {
			return f, nil
		}
		return nil, errors.WithContext(
			errors.Newf(errors.CodeNotFound, "no formatter named %q", name),
			"formatter", name,
		)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	base := strings.ToLower(pathutil.Base(path))
	var (
		best    Formatter
		bestLen int
	)
	for _, key := range r.sortedKeys() {
		f := r.byName[key]
		for _, ext := range f.Extensions() {
			ext = strings.ToLower(strings.TrimPrefix(ext, "."))
			if ext == "" || len(ext) <= bestLen {
				continue
			}
			if strings.HasSuffix(base, "."+ext) {
				best, bestLen = f, len(ext)
			}
		}
	}
	if best != nil {
		return best, nil
	}

	if r.defaultKey != "" {
		return r.byName[r.defaultKey], nil
	}
	return nil, errors.WithContext(
		errors.Newf(errors.CodeNotFound, "no formatter found for %q", path),
		"path", path,
	)
}

// sortedKeys keeps extension ties deterministic. Callers hold r.mu.
func (r *Registry) sortedKeys() []string {
	keys := make([]string, 0, len(r.byName))
	for k := range r.byName {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

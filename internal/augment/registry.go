package augment

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	logMu  sync.RWMutex
	logger = log.New(io.Discard)
)

// SetLogger installs the logger used for registration and deserialization
// events. A nil logger restores the discarding default.
func SetLogger(l *log.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

func lg() *log.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// Spec describes an augmentor class: its name, its constructor arguments
// and a constructor that receives a normalized config.
type Spec struct {
	Name   string
	Doc    string
	Schema Schema
	New    func(cfg Config) (Augmentor, error)
}

// FromConfig builds an instance of spec from cfg. Keys must match the
// schema exactly; missing optional keys take their defaults.
func FromConfig(spec Spec, cfg Config) (Augmentor, error) {
	if spec.New == nil {
		return nil, fmt.Errorf("%w: %s has no constructor", ErrNotAugmentor, spec.Name)
	}
	norm, err := spec.Schema.Normalize(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Name, err)
	}
	a, err := spec.New(norm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", spec.Name, ErrConstruction, err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: %s constructor returned nil", ErrNotAugmentor, spec.Name)
	}
	return a, nil
}

// Registry maps class names to augmentor specs.
//
// Registration rejects empty names, missing constructors, malformed schemas
// and name collisions, so every entry that survives registration can build
// an augmentor. A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register adds spec under spec.Name.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("%w: empty class name", ErrNotAugmentor)
	}
	if spec.New == nil {
		return fmt.Errorf("%w: %s has no constructor", ErrNotAugmentor, spec.Name)
	}
	if err := spec.Schema.validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotAugmentor, spec.Name, err)
	}
	if err := checkDefaults(spec); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.specs[spec.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateClass, spec.Name)
	}
	r.specs[spec.Name] = spec

	lg().Debug("registered augmentor", "class", spec.Name, "fields", len(spec.Schema))
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// building registries from static tables at startup.
func (r *Registry) MustRegister(specs ...Spec) {
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			panic(err)
		}
	}
}

// checkDefaults builds an instance from the defaults when the schema has no
// required fields and checks that it reports the registered name.
func checkDefaults(spec Spec) error {
	for _, f := range spec.Schema {
		if f.Required {
			return nil
		}
	}
	a, err := FromConfig(spec, Config{})
	if err != nil {
		return fmt.Errorf("%w: %s: building defaults: %v", ErrNotAugmentor, spec.Name, err)
	}
	if a.Name() != spec.Name {
		return fmt.Errorf("%w: %s builds instances named %q", ErrNotAugmentor, spec.Name, a.Name())
	}
	return nil
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns the registered class names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs returns the registered specs sorted by name.
func (r *Registry) Specs() []Spec {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Spec, 0, len(names))
	for _, name := range names {
		out = append(out, r.specs[name])
	}
	return out
}

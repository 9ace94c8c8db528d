package health

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrDuplicateName is matched by errors.Is for every DuplicateNameError.
	ErrDuplicateName = errors.New("probe name already registered")
	// ErrInvalidProbe is returned for an empty name or a nil probe.
	ErrInvalidProbe = errors.New("invalid probe")
)

// DuplicateNameError is returned by Register when the name is taken.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("health: probe %q already registered", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// Entry is a named probe as stored in a Registry.
type Entry struct {
	Name  string
	Probe Probe
}

// Registry holds the probes to run on every check, in registration order.
// It is filled once at startup; there is no removal.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	names   map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds probe under name.
func (r *Registry) Register(name string, probe Probe) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProbe)
	}
	if probe == nil {
		return fmt.Errorf("%w: nil probe for %q", ErrInvalidProbe, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[name]; ok {
		return &DuplicateNameError{Name: name}
	}
	r.names[name] = struct{}{}
	r.entries = append(r.entries, Entry{Name: name, Probe: probe})
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, probe Probe) {
	if err := r.Register(name, probe); err != nil {
		panic(err)
	}
}

// List returns a copy of the registered probes in insertion order.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered probes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

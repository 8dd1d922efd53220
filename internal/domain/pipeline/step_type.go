package pipeline

import (
	"context"
	"sort"
)

// StepType is the behavior contract of one kind of pipeline step.
type StepType interface {
	// Primary reports whether the step should run by default for the
	// current component and environment, e.g. a publish step is primary
	// only when a package manifest is present.
	Primary(ctx context.Context, step *StepContext) bool

	// Dependencies returns the names of steps this step implicitly depends
	// on, e.g. a publish step depends on its build step unless a custom
	// source is configured.
	Dependencies(ctx context.Context, step *StepContext) []string

	// Run executes the step body.
	Run(ctx context.Context, step *StepContext) error
}

// Registry maps step type names to their implementations.
type Registry struct {
	types map[string]StepType
}

// NewRegistry creates an empty step type registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]StepType)}
}

// Register adds a step type under its name.
func (r *Registry) Register(name string, stepType StepType) {
	r.types[name] = stepType
}

// Get returns the step type with the given name, or nil if not registered.
func (r *Registry) Get(name string) StepType {
	return r.types[name]
}

// Names returns the sorted list of registered type names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

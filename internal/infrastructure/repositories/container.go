// Package repositories wires the infrastructure implementations of the
// domain collaborator interfaces into the DIG container.
package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/autorelease/internal/domain/pipeline"
	"github.com/rios0rios0/autorelease/internal/infrastructure/repositories/steps"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register the step type registry with all built-in step types
	if err := container.Provide(func() *pipeline.Registry {
		return steps.NewDefaultRegistry()
	}); err != nil {
		return err
	}

	return nil
}

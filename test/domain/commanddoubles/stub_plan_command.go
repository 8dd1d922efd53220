//go:build integration || unit || test

// Package commanddoubles provides hand-crafted test doubles for the domain
// command interfaces.
package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/autorelease/internal/domain/commands"
	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

// StubPlanCommand implements commands.Plan returning a fixed plan.
type StubPlanCommand struct {
	Items []entities.ReleaseItem
	Err   error

	Calls int
}

var _ commands.Plan = (*StubPlanCommand)(nil)

func (it *StubPlanCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	_ commands.Collaborators,
	_ entities.ReleaseOptions,
) ([]entities.ReleaseItem, error) {
	it.Calls++
	return it.Items, it.Err
}

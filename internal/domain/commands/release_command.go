package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
	"github.com/rios0rios0/autorelease/internal/domain/pipeline"
)

// Release is the interface for the release execution command.
type Release interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		collab Collaborators,
		opts entities.ReleaseOptions,
	) error
}

// ReleaseCommand resolves the release plan and executes the configured
// pipeline for each released component. A failing pipeline marks that
// component's release as failed without touching the others.
type ReleaseCommand struct {
	plan     Plan
	registry *pipeline.Registry
}

// NewReleaseCommand creates a new ReleaseCommand.
func NewReleaseCommand(plan Plan, registry *pipeline.Registry) *ReleaseCommand {
	return &ReleaseCommand{plan: plan, registry: registry}
}

// Execute runs the full release cycle: plan, then one pipeline per
// component, sequentially.
func (it *ReleaseCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	collab Collaborators,
	opts entities.ReleaseOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	items, err := it.plan.Execute(ctx, settings, collab, opts)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		logger.Info("Nothing to release")
		return nil
	}

	succeeded := 0
	failed := 0
	for _, item := range items {
		logger.Infof("Releasing %s %s", item.Component.Name, item.Version)
		if runErr := it.runPipeline(ctx, settings, collab, opts, item); runErr != nil {
			logger.Errorf("Release of %s failed: %v", item.Component.Name, runErr)
			failed++
			continue
		}
		succeeded++
	}

	logger.Infof("Release complete: %d succeeded, %d failed", succeeded, failed)
	if failed > 0 {
		return entities.NewReleaseError("%d component release(s) failed", failed)
	}
	return nil
}

func (it *ReleaseCommand) runPipeline(
	ctx context.Context,
	settings *entities.Settings,
	collab Collaborators,
	opts entities.ReleaseOptions,
	item entities.ReleaseItem,
) error {
	artifacts, err := pipeline.NewArtifactDir()
	if err != nil {
		return err
	}

	env := &pipeline.Environment{
		Component: item.Component,
		Version:   item.Version,
		ChangeSet: item.ChangeSet,
		RepoRoot:  collab.RepoRoot,
		DryRun:    opts.DryRun,
		History:   collab.History,
		Runner:    collab.Runner,
		Releases:  collab.Releases,
		Workspace: collab.Workspace,
	}

	run, err := pipeline.NewPipeline(settings.Steps[item.Component.Name], it.registry, env, artifacts)
	if err != nil {
		_ = artifacts.Dispose()
		return err
	}

	run.ResolveRun(ctx)
	return run.Run(ctx)
}

package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autorelease/internal/domain/commands"
	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

// ReleaseController handles the "run" subcommand: resolve the plan and
// execute the configured pipeline for each released component.
type ReleaseController struct {
	command commands.Release
}

// NewReleaseController creates a new ReleaseController.
func NewReleaseController(command commands.Release) *ReleaseController {
	return &ReleaseController{command: command}
}

// GetBind returns the Cobra command metadata for the release controller.
func (it *ReleaseController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run [path]",
		Short: "Resolve the release plan and execute the pipelines",
		Long: `Resolve which components release and at what version, then run the
configured pipeline for each one: changelog rewrite, build, publish,
tag and release steps, with artifacts exchanged between isolated step
directories.

Publish-type steps detect already-completed work and exit early, so a
partially-completed release can be retried safely.`,
	}
}

// AddFlags registers the run-specific flags.
func (it *ReleaseController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Start of the commit range (default: latest release tag)")
	cmd.Flags().String("to", "", "End of the commit range (default: HEAD)")
	cmd.Flags().String("only", "", "Restrict to a single component")
}

// Execute runs the release pipelines.
func (it *ReleaseController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	settings, collab, opts, ok := prepareRun(cmd, args)
	if !ok {
		return
	}

	if err := it.command.Execute(ctx, settings, collab, opts); err != nil {
		logger.Errorf("Release failed: %v", err)
	}
}

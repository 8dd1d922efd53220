package controllers

import (
	"context"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autorelease/internal/domain/commands"
	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

// PlanController handles the "plan" subcommand: resolve the release scope
// and print each component's target version with a changelog preview.
type PlanController struct {
	command commands.Plan
}

// NewPlanController creates a new PlanController.
func NewPlanController(command commands.Plan) *PlanController {
	return &PlanController{command: command}
}

// GetBind returns the Cobra command metadata for the plan controller.
func (it *PlanController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "plan [path]",
		Short: "Resolve which components release and at what version",
		Long: `Scan the commit history since the last release, fold conventional
commits into per-component change sets, apply coordination groups and
dependency cascades, and print the resolved release plan without
executing any pipeline.`,
	}
}

// AddFlags registers the plan-specific flags.
func (it *PlanController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Start of the commit range (default: latest release tag)")
	cmd.Flags().String("to", "", "End of the commit range (default: HEAD)")
	cmd.Flags().String("only", "", "Restrict to a single component")
}

// Execute resolves and prints the release plan.
func (it *PlanController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	settings, collab, opts, ok := prepareRun(cmd, args)
	if !ok {
		return
	}

	items, err := it.command.Execute(ctx, settings, collab, opts)
	if err != nil {
		logger.Errorf("Failed to resolve release plan: %v", err)
		return
	}
	if len(items) == 0 {
		logger.Info("Nothing to release")
		return
	}

	date := time.Now().UTC().Format("2006-01-02")
	for _, item := range items {
		groups, groupsErr := item.ChangeSet.ChangeGroups()
		if groupsErr != nil {
			logger.Errorf("Failed to read change groups: %v", groupsErr)
			return
		}
		fmt.Printf("%s -> %s\n\n", item.Component.Name, item.Version)
		fmt.Println(entities.RenderReleaseSection(item.Version, date, groups))
	}
	logger.Infof("Plan complete: %d component(s) would be released", len(items))
}

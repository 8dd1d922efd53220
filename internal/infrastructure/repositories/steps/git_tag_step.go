package steps

import (
	"context"
	"fmt"

	"github.com/rios0rios0/autorelease/internal/domain/pipeline"
)

// GitTagStep creates the release tag. Idempotent: when the tag already
// exists the step records a success and exits early, so retrying a
// partially-completed release is safe.
type GitTagStep struct{}

func (it *GitTagStep) Primary(_ context.Context, _ *pipeline.StepContext) bool {
	return true
}

func (it *GitTagStep) Dependencies(_ context.Context, _ *pipeline.StepContext) []string {
	return nil
}

func (it *GitTagStep) Run(ctx context.Context, step *pipeline.StepContext) error {
	tag := expand(step.StringOption("tag", ""), step)
	if tag == "" {
		tag = releaseTag(step)
	}

	exists, err := step.History().TagExists(ctx, tag)
	if err != nil {
		return fmt.Errorf("failed to query tag %q: %w", tag, err)
	}
	if exists {
		step.RecordSuccess("Tag %s already exists", tag)
		return step.ExitStep("tag already exists")
	}

	if step.DryRun() {
		step.RecordSuccess("DRY RUN: would create tag %s", tag)
		return nil
	}

	message := expand(step.StringOption("message", "Release {tag}"), step)
	if err = step.History().CreateTag(ctx, tag, message); err != nil {
		return step.AbortPipeline("failed to create tag %q: %v", tag, err)
	}
	if err = step.History().PushTag(ctx, tag); err != nil {
		return step.AbortPipeline("failed to push tag %q: %v", tag, err)
	}

	step.RecordSuccess("Created tag %s", tag)
	return nil
}

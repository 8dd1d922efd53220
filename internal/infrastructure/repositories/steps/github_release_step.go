package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
	"github.com/rios0rios0/autorelease/internal/domain/pipeline"
)

// GitHubReleaseStep publishes a GitHub release for the release tag, with
// the rendered changelog section as its body. It follows the publish
// contract: an existing release short-circuits into a success, dry-run
// records a "DRY RUN" success, a failed API call aborts the pipeline.
type GitHubReleaseStep struct{}

func (it *GitHubReleaseStep) Primary(_ context.Context, _ *pipeline.StepContext) bool {
	return false
}

// Dependencies declares the tag step as implicit input unless a custom
// source is configured: the release needs its tag to exist first.
func (it *GitHubReleaseStep) Dependencies(_ context.Context, step *pipeline.StepContext) []string {
	return []string{step.StringOption("source", TypeGitTag)}
}

func (it *GitHubReleaseStep) Run(ctx context.Context, step *pipeline.StepContext) error {
	if step.Releases() == nil {
		return step.AbortPipeline("no release client configured (missing token?)")
	}

	tag := expand(step.StringOption("tag", ""), step)
	if tag == "" {
		tag = releaseTag(step)
	}

	exists, err := step.Releases().ReleaseExists(ctx, tag)
	if err != nil {
		return fmt.Errorf("failed to query release %q: %w", tag, err)
	}
	if exists {
		step.RecordSuccess("Release %s already exists", tag)
		return step.ExitStep("release already exists")
	}

	if step.DryRun() {
		step.RecordSuccess("DRY RUN: would create release %s", tag)
		return nil
	}

	groups, err := step.ChangeSet().ChangeGroups()
	if err != nil {
		return err
	}
	date := time.Now().UTC().Format("2006-01-02")
	body := entities.RenderReleaseSection(step.Version(), date, groups)

	if err = step.Releases().CreateRelease(ctx, tag, tag, body); err != nil {
		return step.AbortPipeline("failed to create release %q: %v", tag, err)
	}

	step.RecordSuccess("Created release %s", tag)
	return nil
}

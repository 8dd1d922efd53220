package steps

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rios0rios0/autorelease/internal/domain/pipeline"
)

// PackagePublishStep publishes the built artifact to its registry. The
// publish contract makes retries of partially-completed releases safe:
//
//  1. Probe the registry for an artifact at the target version; when found,
//     record a success and exit the step early.
//  2. In dry-run mode, verify the artifact exists locally and record a
//     "DRY RUN" success without any network call.
//  3. Otherwise run the publish command; a non-zero exit aborts the whole
//     pipeline.
//
// Options:
//   - command:       publish command (required)
//   - check_command: exits 0 when the version is already published
//   - artifact:      artifact path relative to the working directory,
//     verified in dry-run mode
//   - source:        name of the step whose output holds the artifact
//     (defaults to the package_build step)
type PackagePublishStep struct{}

func (it *PackagePublishStep) Primary(_ context.Context, _ *pipeline.StepContext) bool {
	return false
}

// Dependencies declares the implicit input: the build step, unless a custom
// source is configured.
func (it *PackagePublishStep) Dependencies(_ context.Context, step *pipeline.StepContext) []string {
	return []string{step.StringOption("source", TypePackageBuild)}
}

func (it *PackagePublishStep) Run(ctx context.Context, step *pipeline.StepContext) error {
	version := step.Version().String()

	if check := step.StringOption("check_command", ""); check != "" {
		result, err := step.Runner().Run(ctx, step.WorkDir(), "sh", "-c", expand(check, step))
		if err != nil {
			return fmt.Errorf("failed to start registry check: %w", err)
		}
		if result.ExitCode == 0 {
			step.RecordSuccess("Version %s is already published", version)
			return step.ExitStep("already published")
		}
	}

	if step.DryRun() {
		if artifact := expand(step.StringOption("artifact", ""), step); artifact != "" {
			if !step.Workspace().FileExists(filepath.Join(step.WorkDir(), artifact)) {
				return step.AbortPipeline("artifact %q is missing for dry-run publish", artifact)
			}
		}
		step.RecordSuccess("DRY RUN: would publish version %s", version)
		return nil
	}

	command := step.StringOption("command", "")
	if command == "" {
		return step.AbortPipeline("step %q has no publish command configured", step.Settings().Name)
	}

	result, err := step.Runner().Run(ctx, step.WorkDir(), "sh", "-c", expand(command, step))
	if err != nil {
		return fmt.Errorf("failed to start publish: %w", err)
	}
	if result.ExitCode != 0 {
		return step.AbortPipeline("publish exited with code %d: %s", result.ExitCode, result.Stdout)
	}

	step.RecordSuccess("Published version %s", version)
	return nil
}

//go:build unit

package steps_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
	"github.com/rios0rios0/autorelease/internal/domain/pipeline"
	"github.com/rios0rios0/autorelease/internal/domain/repositories"
	"github.com/rios0rios0/autorelease/internal/infrastructure/repositories/steps"
	doubles "github.com/rios0rios0/autorelease/test/infrastructure/repositorydoubles"
)

type stepFixture struct {
	env       *pipeline.Environment
	artifacts *pipeline.ArtifactDir
	runner    *doubles.SpyCommandRunner
	history   *doubles.SpyHistoryRepository
	releases  *doubles.SpyReleaseRepository
	workspace *doubles.StubWorkspaceRepository
}

func newStepFixture(t *testing.T, component *entities.Component) *stepFixture {
	t.Helper()

	set := entities.NewChangeSet(entities.ChangeSetSettings{})
	require.NoError(t, set.AddCommit(entities.NewCommitInfo(
		"a000000000000000000000000000000000000000", "feat: something new", "", nil)))
	set.Finish()

	runner := &doubles.SpyCommandRunner{}
	history := &doubles.SpyHistoryRepository{Tags: map[string]bool{}}
	releases := &doubles.SpyReleaseRepository{Existing: map[string]bool{}}
	workspace := &doubles.StubWorkspaceRepository{Files: map[string]string{}}

	artifacts, err := pipeline.NewArtifactDirAt(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)

	return &stepFixture{
		env: &pipeline.Environment{
			Component: component,
			Version:   entities.NewVersion(1, 2, 0, 0),
			ChangeSet: set,
			RepoRoot:  t.TempDir(),
			History:   history,
			Runner:    runner,
			Releases:  releases,
			Workspace: workspace,
		},
		artifacts: artifacts,
		runner:    runner,
		history:   history,
		releases:  releases,
		workspace: workspace,
	}
}

func (it *stepFixture) stepContext(settings entities.StepSettings) *pipeline.StepContext {
	return pipeline.NewStepContext(settings, it.env, it.artifacts)
}

func rootComponent() *entities.Component {
	return &entities.Component{Name: "app", Directory: ".", ChangelogFile: "CHANGELOG.md"}
}

func TestCommandStep(t *testing.T) {
	t.Parallel()

	t.Run("should abort when no command is configured", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		step := fixture.stepContext(entities.StepSettings{Name: "custom", Type: steps.TypeCommand})

		// when
		err := (&steps.CommandStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.True(t, entities.IsPipelineExit(err))
	})

	t.Run("should run the command through the shell with placeholders expanded", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		step := fixture.stepContext(entities.StepSettings{
			Name: "custom", Type: steps.TypeCommand,
			Options: map[string]any{"command": "echo {component} {version} {tag}"},
		})

		// when
		err := (&steps.CommandStep{}).Run(context.Background(), step)

		// then
		require.NoError(t, err)
		require.Len(t, fixture.runner.Ran, 1)
		assert.Equal(t, "sh", fixture.runner.Ran[0].Name)
		assert.Equal(t, []string{"-c", "echo app 1.2.0 v1.2.0"}, fixture.runner.Ran[0].Args)
	})

	t.Run("should fail with a plain error on a non-zero exit", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		fixture.runner.Results = map[string]repositories.CommandResult{
			"sh -c false": {ExitCode: 1, Stdout: "boom"},
		}
		step := fixture.stepContext(entities.StepSettings{
			Name: "custom", Type: steps.TypeCommand,
			Options: map[string]any{"command": "false"},
		})

		// when
		err := (&steps.CommandStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.False(t, entities.IsPipelineExit(err))
	})
}

func TestPackageBuildStep(t *testing.T) {
	t.Parallel()

	t.Run("should be primary only when the manifest exists", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		step := fixture.stepContext(entities.StepSettings{Name: "build", Type: steps.TypePackageBuild})

		// when / then
		assert.False(t, (&steps.PackageBuildStep{}).Primary(context.Background(), step))

		require.NoError(t, fixture.workspace.WriteFile(
			filepath.Join(fixture.env.RepoRoot, "go.mod"), "module app"))
		assert.True(t, (&steps.PackageBuildStep{}).Primary(context.Background(), step))
	})

	t.Run("should run the configured build command", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		step := fixture.stepContext(entities.StepSettings{
			Name: "build", Type: steps.TypePackageBuild,
			Options: map[string]any{"command": "make dist VERSION={version}"},
		})

		// when
		err := (&steps.PackageBuildStep{}).Run(context.Background(), step)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"sh -c make dist VERSION=1.2.0"}, fixture.runner.CommandLines())
	})

	t.Run("should fail when the declared artifact was not produced", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		step := fixture.stepContext(entities.StepSettings{
			Name: "build", Type: steps.TypePackageBuild,
			Options: map[string]any{"artifact": "dist/app-{version}.tgz"},
		})

		// when
		err := (&steps.PackageBuildStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dist/app-1.2.0.tgz")
	})
}

func TestPackagePublishStep(t *testing.T) {
	t.Parallel()

	t.Run("should exit early when the registry already has the version", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		step := fixture.stepContext(entities.StepSettings{
			Name: "publish", Type: steps.TypePackagePublish,
			Options: map[string]any{
				"check_command": "check {version}",
				"command":       "upload {version}",
			},
		})

		// when
		err := (&steps.PackagePublishStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.True(t, entities.IsStepExit(err))
		assert.Equal(t, []string{"sh -c check 1.2.0"}, fixture.runner.CommandLines())
		assert.Contains(t, step.Messages(), "Version 1.2.0 is already published")
	})

	t.Run("should verify the artifact locally in dry-run mode", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		fixture.env.DryRun = true
		require.NoError(t, fixture.workspace.WriteFile(
			filepath.Join(fixture.env.RepoRoot, "dist/app-1.2.0.tgz"), "payload"))
		step := fixture.stepContext(entities.StepSettings{
			Name: "publish", Type: steps.TypePackagePublish,
			Options: map[string]any{
				"command":  "upload {version}",
				"artifact": "dist/app-{version}.tgz",
			},
		})

		// when
		err := (&steps.PackagePublishStep{}).Run(context.Background(), step)

		// then
		require.NoError(t, err)
		assert.Empty(t, fixture.runner.CommandLines())
		assert.Contains(t, step.Messages(), "DRY RUN: would publish version 1.2.0")
	})

	t.Run("should abort the dry run when the artifact is missing", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		fixture.env.DryRun = true
		step := fixture.stepContext(entities.StepSettings{
			Name: "publish", Type: steps.TypePackagePublish,
			Options: map[string]any{
				"command":  "upload {version}",
				"artifact": "dist/app-{version}.tgz",
			},
		})

		// when
		err := (&steps.PackagePublishStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.True(t, entities.IsPipelineExit(err))
	})

	t.Run("should abort the pipeline when the publish command fails", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		fixture.runner.Results = map[string]repositories.CommandResult{
			"sh -c upload 1.2.0": {ExitCode: 1, Stdout: "denied"},
		}
		step := fixture.stepContext(entities.StepSettings{
			Name: "publish", Type: steps.TypePackagePublish,
			Options: map[string]any{"command": "upload {version}"},
		})

		// when
		err := (&steps.PackagePublishStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.True(t, entities.IsPipelineExit(err))
	})

	t.Run("should abort when no publish command is configured", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		step := fixture.stepContext(entities.StepSettings{Name: "publish", Type: steps.TypePackagePublish})

		// when
		err := (&steps.PackagePublishStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.True(t, entities.IsPipelineExit(err))
	})

	t.Run("should default its implicit dependency to the build type", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		plain := fixture.stepContext(entities.StepSettings{Name: "publish", Type: steps.TypePackagePublish})
		custom := fixture.stepContext(entities.StepSettings{
			Name: "publish", Type: steps.TypePackagePublish,
			Options: map[string]any{"source": "assemble"},
		})

		// when / then
		assert.Equal(t, []string{steps.TypePackageBuild},
			(&steps.PackagePublishStep{}).Dependencies(context.Background(), plain))
		assert.Equal(t, []string{"assemble"},
			(&steps.PackagePublishStep{}).Dependencies(context.Background(), custom))
	})
}

func TestGitTagStep(t *testing.T) {
	t.Parallel()

	t.Run("should create the release tag with an expanded message", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		step := fixture.stepContext(entities.StepSettings{Name: "tag", Type: steps.TypeGitTag})

		// when
		err := (&steps.GitTagStep{}).Run(context.Background(), step)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"v1.2.0"}, fixture.history.CreatedTags)
		assert.Equal(t, "Release v1.2.0", fixture.history.TagMessages["v1.2.0"])
		assert.Equal(t, []string{"v1.2.0"}, fixture.history.PushedTags)
	})

	t.Run("should abort the pipeline when the tag push fails", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		fixture.history.PushErr = errors.New("remote rejected the ref")
		step := fixture.stepContext(entities.StepSettings{Name: "tag", Type: steps.TypeGitTag})

		// when
		err := (&steps.GitTagStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.True(t, entities.IsPipelineExit(err))
		assert.Equal(t, []string{"v1.2.0"}, fixture.history.CreatedTags)
	})

	t.Run("should prefix the tag with the component name for nested components", func(t *testing.T) {
		// given
		component := &entities.Component{Name: "api", Directory: "services/api"}
		fixture := newStepFixture(t, component)
		step := fixture.stepContext(entities.StepSettings{Name: "tag", Type: steps.TypeGitTag})

		// when
		err := (&steps.GitTagStep{}).Run(context.Background(), step)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"api/v1.2.0"}, fixture.history.CreatedTags)
	})

	t.Run("should exit early when the tag already exists", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		fixture.history.Tags["v1.2.0"] = true
		step := fixture.stepContext(entities.StepSettings{Name: "tag", Type: steps.TypeGitTag})

		// when
		err := (&steps.GitTagStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.True(t, entities.IsStepExit(err))
		assert.Empty(t, fixture.history.CreatedTags)
	})

	t.Run("should not create anything in dry-run mode", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		fixture.env.DryRun = true
		step := fixture.stepContext(entities.StepSettings{Name: "tag", Type: steps.TypeGitTag})

		// when
		err := (&steps.GitTagStep{}).Run(context.Background(), step)

		// then
		require.NoError(t, err)
		assert.Empty(t, fixture.history.CreatedTags)
		assert.Contains(t, step.Messages(), "DRY RUN: would create tag v1.2.0")
	})
}

func TestChangelogStep(t *testing.T) {
	t.Parallel()

	t.Run("should be primary only when a changelog file is configured", func(t *testing.T) {
		// given
		with := newStepFixture(t, rootComponent())
		without := newStepFixture(t, &entities.Component{Name: "app", Directory: "."})

		// when / then
		assert.True(t, (&steps.ChangelogStep{}).Primary(context.Background(),
			with.stepContext(entities.StepSettings{Name: "changelog"})))
		assert.False(t, (&steps.ChangelogStep{}).Primary(context.Background(),
			without.stepContext(entities.StepSettings{Name: "changelog"})))
	})

	t.Run("should insert the release section into the changelog", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		path := filepath.Join(fixture.env.RepoRoot, "CHANGELOG.md")
		require.NoError(t, fixture.workspace.WriteFile(path,
			"# Changelog\n\n## [1.1.0] - 2026-01-01\n\n- old\n"))
		step := fixture.stepContext(entities.StepSettings{Name: "changelog", Type: steps.TypeChangelog})

		// when
		err := (&steps.ChangelogStep{}).Run(context.Background(), step)

		// then
		require.NoError(t, err)
		content, err := fixture.workspace.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, content, "## [1.2.0] - ")
		assert.Contains(t, content, "- something new")
	})

	t.Run("should write the version file when the component declares one", func(t *testing.T) {
		// given
		component := rootComponent()
		component.VersionFile = "VERSION"
		fixture := newStepFixture(t, component)
		step := fixture.stepContext(entities.StepSettings{Name: "changelog", Type: steps.TypeChangelog})

		// when
		err := (&steps.ChangelogStep{}).Run(context.Background(), step)

		// then
		require.NoError(t, err)
		version, err := fixture.workspace.ReadFile(filepath.Join(fixture.env.RepoRoot, "VERSION"))
		require.NoError(t, err)
		assert.Equal(t, "1.2.0\n", version)
	})
}

func TestGitHubReleaseStep(t *testing.T) {
	t.Parallel()

	t.Run("should abort when no release client is configured", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		fixture.env.Releases = nil
		step := fixture.stepContext(entities.StepSettings{Name: "release", Type: steps.TypeGitHubRelease})

		// when
		err := (&steps.GitHubReleaseStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.True(t, entities.IsPipelineExit(err))
	})

	t.Run("should exit early when the release already exists", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		fixture.releases.Existing["v1.2.0"] = true
		step := fixture.stepContext(entities.StepSettings{Name: "release", Type: steps.TypeGitHubRelease})

		// when
		err := (&steps.GitHubReleaseStep{}).Run(context.Background(), step)

		// then
		require.Error(t, err)
		assert.True(t, entities.IsStepExit(err))
		assert.Empty(t, fixture.releases.CreatedTags)
	})

	t.Run("should publish the rendered changelog section as the body", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		step := fixture.stepContext(entities.StepSettings{Name: "release", Type: steps.TypeGitHubRelease})

		// when
		err := (&steps.GitHubReleaseStep{}).Run(context.Background(), step)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"v1.2.0"}, fixture.releases.CreatedTags)
		assert.Contains(t, fixture.releases.CreatedBodies["v1.2.0"], "### Added")
		assert.Contains(t, fixture.releases.CreatedBodies["v1.2.0"], "- something new")
	})

	t.Run("should skip the network call in dry-run mode", func(t *testing.T) {
		// given
		fixture := newStepFixture(t, rootComponent())
		fixture.env.DryRun = true
		step := fixture.stepContext(entities.StepSettings{Name: "release", Type: steps.TypeGitHubRelease})

		// when
		err := (&steps.GitHubReleaseStep{}).Run(context.Background(), step)

		// then
		require.NoError(t, err)
		assert.Empty(t, fixture.releases.CreatedTags)
	})
}

// Package steps provides the built-in pipeline step types: shell commands,
// package build/publish, changelog rewriting, git tagging and GitHub
// releases. Each type implements pipeline.StepType and is registered in a
// compile-time map from type name to implementation.
package steps

import (
	"strings"

	"github.com/rios0rios0/autorelease/internal/domain/pipeline"
)

// Step type names as used in configuration.
const (
	TypeCommand        = "command"
	TypePackageBuild   = "package_build"
	TypePackagePublish = "package_publish"
	TypeChangelog      = "changelog"
	TypeGitTag         = "git_tag"
	TypeGitHubRelease  = "github_release"
)

// NewDefaultRegistry builds the registry with every built-in step type.
func NewDefaultRegistry() *pipeline.Registry {
	registry := pipeline.NewRegistry()
	registry.Register(TypeCommand, &CommandStep{})
	registry.Register(TypePackageBuild, &PackageBuildStep{})
	registry.Register(TypePackagePublish, &PackagePublishStep{})
	registry.Register(TypeChangelog, &ChangelogStep{})
	registry.Register(TypeGitTag, &GitTagStep{})
	registry.Register(TypeGitHubRelease, &GitHubReleaseStep{})
	return registry
}

// expand substitutes the step-option placeholders {version}, {component}
// and {tag} in a configured command or path.
func expand(raw string, step *pipeline.StepContext) string {
	replacer := strings.NewReplacer(
		"{version}", step.Version().String(),
		"{component}", componentName(step),
		"{tag}", releaseTag(step),
	)
	return replacer.Replace(raw)
}

func componentName(step *pipeline.StepContext) string {
	if step.Component() == nil {
		return ""
	}
	return step.Component().Name
}

// releaseTag is the tag name for the current release: "v<version>" for a
// root component, "<name>/v<version>" for a nested one.
func releaseTag(step *pipeline.StepContext) string {
	version := step.Version().String()
	component := step.Component()
	if component == nil || component.Directory == "" || component.Directory == "." {
		return "v" + version
	}
	return component.Name + "/v" + version
}

package commands

import (
	"context"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
	"github.com/rios0rios0/autorelease/internal/domain/repositories"
)

// Collaborators bundles the repository-bound collaborators a command needs
// for one run. They are assembled per invocation by the controller, since
// the repository path is only known at runtime.
type Collaborators struct {
	RepoRoot  string
	History   repositories.HistoryRepository
	Runner    repositories.CommandRunner
	Releases  repositories.ReleaseRepository // nil without a token
	Workspace repositories.WorkspaceRepository
}

// Plan is the interface for the release-scope resolution command.
type Plan interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		collab Collaborators,
		opts entities.ReleaseOptions,
	) ([]entities.ReleaseItem, error)
}

// PlanCommand resolves which components require a release and at what
// version: it bounds the commit range, folds commits into per-component
// change sets and computes the release closure.
type PlanCommand struct{}

// NewPlanCommand creates a new PlanCommand.
func NewPlanCommand() *PlanCommand {
	return &PlanCommand{}
}

// Execute resolves the release plan for the configured components.
func (it *PlanCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	collab Collaborators,
	opts entities.ReleaseOptions,
) ([]entities.ReleaseItem, error) {
	fromRef, err := it.resolveFromRef(ctx, collab, opts)
	if err != nil {
		return nil, err
	}

	commits, err := collab.History.CommitSequence(ctx, fromRef, opts.ToRef)
	if err != nil {
		return nil, err
	}
	logger.Infof("Scanning %d commits since %s", len(commits), refOrStart(fromRef))

	current, err := it.currentVersions(ctx, settings, collab)
	if err != nil {
		return nil, err
	}

	spec, err := entities.NewRequestSpec(settings.Components, current, settings.ChangeSetSettings(nil))
	if err != nil {
		return nil, err
	}
	if opts.Only != "" {
		if err = spec.Request(opts.Only, nil, entities.LevelNone); err != nil {
			return nil, err
		}
	}

	items, err := spec.Resolve(commits)
	if err != nil {
		return nil, err
	}

	if opts.Only != "" {
		items = filterOnly(items, opts.Only)
	}
	return items, nil
}

// resolveFromRef defaults the range start to the latest root release tag;
// a repository without tags scans its whole history.
func (it *PlanCommand) resolveFromRef(
	ctx context.Context,
	collab Collaborators,
	opts entities.ReleaseOptions,
) (string, error) {
	if opts.FromRef != "" {
		return opts.FromRef, nil
	}
	// The tag name goes through as-is; the history repository resolves it,
	// peeling annotated tags to their target commit.
	return collab.History.LatestVersionTag(ctx, "v")
}

// currentVersions reads each component's version baseline: the version file
// when present, the latest component tag otherwise.
func (it *PlanCommand) currentVersions(
	ctx context.Context,
	settings *entities.Settings,
	collab Collaborators,
) (map[string]*entities.Version, error) {
	current := make(map[string]*entities.Version, len(settings.Components))
	for _, component := range settings.Components {
		version, err := it.currentVersion(ctx, component, collab)
		if err != nil {
			return nil, err
		}
		current[component.Name] = version
	}
	return current, nil
}

func (it *PlanCommand) currentVersion(
	ctx context.Context,
	component *entities.Component,
	collab Collaborators,
) (*entities.Version, error) {
	if component.VersionFile != "" {
		path := componentPath(collab.RepoRoot, component, component.VersionFile)
		if collab.Workspace.FileExists(path) {
			raw, err := collab.Workspace.ReadFile(path)
			if err != nil {
				return nil, err
			}
			version, err := entities.ParseVersion(strings.TrimSpace(raw))
			if err != nil {
				return nil, err
			}
			return &version, nil
		}
	}

	prefix := "v"
	if component.Directory != "" && component.Directory != "." {
		prefix = component.Name + "/v"
	}
	tag, err := collab.History.LatestVersionTag(ctx, prefix)
	if err != nil || tag == "" {
		return nil, err
	}
	version, err := entities.ParseVersion(strings.TrimPrefix(tag, prefix))
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func componentPath(root string, component *entities.Component, file string) string {
	if component.Directory == "" || component.Directory == "." {
		return root + "/" + file
	}
	return root + "/" + component.Directory + "/" + file
}

func filterOnly(items []entities.ReleaseItem, only string) []entities.ReleaseItem {
	filtered := make([]entities.ReleaseItem, 0, 1)
	for _, item := range items {
		if item.Component.Name == only {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func refOrStart(ref string) string {
	if ref == "" {
		return "the beginning of history"
	}
	return ref
}

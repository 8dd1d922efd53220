//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations — no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sort"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
	"github.com/rios0rios0/autorelease/internal/domain/repositories"
)

// SpyHistoryRepository implements repositories.HistoryRepository as a configurable spy.
type SpyHistoryRepository struct {
	// --- commit data ---
	Commits      []entities.CommitInfo
	CommitsBySHA map[string]entities.CommitInfo
	HeadSHA      string

	// --- tags ---
	Tags         map[string]bool
	LatestTag    string
	LatestTags   map[string]string // per requested prefix; falls back to LatestTag
	CreatedTags  []string
	TagMessages  map[string]string
	CreateTagErr error
	PushedTags   []string
	PushErr      error

	// --- workdir ---
	ResetCalls int
	ResetErr   error

	// --- error injection ---
	SequenceErr error
}

var _ repositories.HistoryRepository = (*SpyHistoryRepository)(nil)

func (it *SpyHistoryRepository) CommitInfo(_ context.Context, sha string) (entities.CommitInfo, error) {
	if it.CommitsBySHA != nil {
		if info, ok := it.CommitsBySHA[sha]; ok {
			return info, nil
		}
	}
	for _, info := range it.Commits {
		if info.SHA == sha {
			return info, nil
		}
	}
	return entities.CommitInfo{}, fmt.Errorf("commit not found: %s", sha)
}

// CommitSequence returns the configured commits after the one matching
// `from`, or all of them when the bound matches nothing.
func (it *SpyHistoryRepository) CommitSequence(_ context.Context, from, _ string) ([]entities.CommitInfo, error) {
	if it.SequenceErr != nil {
		return nil, it.SequenceErr
	}
	if from != "" {
		for i, info := range it.Commits {
			if info.SHA == from {
				return it.Commits[i+1:], nil
			}
		}
	}
	return it.Commits, nil
}

func (it *SpyHistoryRepository) CurrentSHA(_ context.Context) (string, error) {
	if it.HeadSHA != "" {
		return it.HeadSHA, nil
	}
	if len(it.Commits) > 0 {
		return it.Commits[len(it.Commits)-1].SHA, nil
	}
	return "", fmt.Errorf("no commits configured")
}

func (it *SpyHistoryRepository) ParentSHA(_ context.Context, sha string) (string, error) {
	for _, info := range it.Commits {
		if info.SHA == sha {
			return info.ParentSHA, nil
		}
	}
	return "", fmt.Errorf("commit not found: %s", sha)
}

func (it *SpyHistoryRepository) TagExists(_ context.Context, name string) (bool, error) {
	return it.Tags[name], nil
}

func (it *SpyHistoryRepository) CreateTag(_ context.Context, name, message string) error {
	if it.CreateTagErr != nil {
		return it.CreateTagErr
	}
	it.CreatedTags = append(it.CreatedTags, name)
	if it.TagMessages == nil {
		it.TagMessages = map[string]string{}
	}
	it.TagMessages[name] = message
	return nil
}

func (it *SpyHistoryRepository) PushTag(_ context.Context, name string) error {
	if it.PushErr != nil {
		return it.PushErr
	}
	it.PushedTags = append(it.PushedTags, name)
	return nil
}

func (it *SpyHistoryRepository) LatestVersionTag(_ context.Context, prefix string) (string, error) {
	if tag, ok := it.LatestTags[prefix]; ok {
		return tag, nil
	}
	return it.LatestTag, nil
}

func (it *SpyHistoryRepository) ResetWorkdir(_ context.Context) error {
	it.ResetCalls++
	return it.ResetErr
}

// RanCommand records one SpyCommandRunner invocation.
type RanCommand struct {
	Dir  string
	Name string
	Args []string
}

// SpyCommandRunner implements repositories.CommandRunner as a configurable spy.
// Results are matched by the full command line ("name arg1 arg2 ..."); the
// zero value succeeds every command with exit code 0.
type SpyCommandRunner struct {
	Results map[string]repositories.CommandResult
	RunErr  error
	Ran     []RanCommand
}

var _ repositories.CommandRunner = (*SpyCommandRunner)(nil)

func (it *SpyCommandRunner) Run(
	_ context.Context, dir, name string, args ...string,
) (repositories.CommandResult, error) {
	it.Ran = append(it.Ran, RanCommand{Dir: dir, Name: name, Args: args})
	if it.RunErr != nil {
		return repositories.CommandResult{}, it.RunErr
	}
	line := name
	for _, arg := range args {
		line += " " + arg
	}
	if result, ok := it.Results[line]; ok {
		return result, nil
	}
	return repositories.CommandResult{ExitCode: 0}, nil
}

// CommandLines returns the full command lines run so far, in order.
func (it *SpyCommandRunner) CommandLines() []string {
	lines := make([]string, 0, len(it.Ran))
	for _, ran := range it.Ran {
		line := ran.Name
		for _, arg := range ran.Args {
			line += " " + arg
		}
		lines = append(lines, line)
	}
	return lines
}

// SpyReleaseRepository implements repositories.ReleaseRepository as a configurable spy.
type SpyReleaseRepository struct {
	Existing         map[string]bool
	CreatedTags      []string
	CreatedBodies    map[string]string
	CreateReleaseErr error
	ExistsErr        error
}

var _ repositories.ReleaseRepository = (*SpyReleaseRepository)(nil)

func (it *SpyReleaseRepository) ReleaseExists(_ context.Context, tag string) (bool, error) {
	return it.Existing[tag], it.ExistsErr
}

func (it *SpyReleaseRepository) CreateRelease(_ context.Context, tag, _, body string) error {
	if it.CreateReleaseErr != nil {
		return it.CreateReleaseErr
	}
	it.CreatedTags = append(it.CreatedTags, tag)
	if it.CreatedBodies == nil {
		it.CreatedBodies = map[string]string{}
	}
	it.CreatedBodies[tag] = body
	return nil
}

// StubWorkspaceRepository implements repositories.WorkspaceRepository backed
// by an in-memory map of path to content.
type StubWorkspaceRepository struct {
	Files    map[string]string
	WriteErr error
}

var _ repositories.WorkspaceRepository = (*StubWorkspaceRepository)(nil)

func (it *StubWorkspaceRepository) ReadFile(path string) (string, error) {
	if content, ok := it.Files[path]; ok {
		return content, nil
	}
	return "", fmt.Errorf("file not found: %s", path)
}

func (it *StubWorkspaceRepository) WriteFile(path, content string) error {
	if it.WriteErr != nil {
		return it.WriteErr
	}
	if it.Files == nil {
		it.Files = map[string]string{}
	}
	it.Files[path] = content
	return nil
}

func (it *StubWorkspaceRepository) FileExists(path string) bool {
	_, ok := it.Files[path]
	return ok
}

// Paths returns the stored file paths sorted, for stable assertions.
func (it *StubWorkspaceRepository) Paths() []string {
	paths := make([]string, 0, len(it.Files))
	for path := range it.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

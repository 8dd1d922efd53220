package repositories

import (
	"context"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

// HistoryRepository is the read side of the repository clone: commit
// metadata, modified paths and release tags.
type HistoryRepository interface {
	// CommitInfo returns the populated record for one commit.
	CommitInfo(ctx context.Context, sha string) (entities.CommitInfo, error)

	// CommitSequence returns the commits reachable from `to` but not from
	// `from`, oldest first. An empty `to` means HEAD.
	CommitSequence(ctx context.Context, from, to string) ([]entities.CommitInfo, error)

	// CurrentSHA returns the sha HEAD points at.
	CurrentSHA(ctx context.Context) (string, error)

	// ParentSHA returns the first-parent sha of a commit.
	ParentSHA(ctx context.Context, sha string) (string, error)

	// TagExists reports whether the named tag is already present.
	TagExists(ctx context.Context, name string) (bool, error)

	// CreateTag creates an annotated tag at HEAD.
	CreateTag(ctx context.Context, name, message string) error

	// PushTag pushes one tag to the origin remote. Repositories without a
	// remote keep the tag local.
	PushTag(ctx context.Context, name string) error

	// LatestVersionTag returns the highest semver tag carrying the prefix,
	// or "" when none exists.
	LatestVersionTag(ctx context.Context, prefix string) (string, error)

	// ResetWorkdir restores the working tree to a clean checkout
	// (hard reset plus removal of untracked files).
	ResetWorkdir(ctx context.Context) error
}

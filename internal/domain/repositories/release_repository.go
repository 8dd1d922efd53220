package repositories

import "context"

// ReleaseRepository is the remote release surface (the Git hosting
// provider): used by publish-type steps to detect already-completed work and
// to create the release for a tag.
type ReleaseRepository interface {
	// ReleaseExists reports whether a release for the tag is already
	// published.
	ReleaseExists(ctx context.Context, tag string) (bool, error)

	// CreateRelease publishes a release for the tag.
	CreateRelease(ctx context.Context, tag, title, body string) error
}

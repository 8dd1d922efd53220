//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// CommitBuilder helps create test commits with a fluent interface.
type CommitBuilder struct {
	*testkit.BaseBuilder
	sha       string
	message   string
	parentSHA string
	paths     []string
}

var commitCounter int

// NewCommitBuilder creates a new commit builder with sensible defaults. Each
// builder gets a distinct default SHA so sequences of commits stay unique.
func NewCommitBuilder() *CommitBuilder {
	commitCounter++
	return &CommitBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		sha:         fmt.Sprintf("%040d", commitCounter),
		message:     "chore: test commit",
		parentSHA:   "",
		paths:       []string{"main.go"},
	}
}

// WithSHA sets the commit sha.
func (b *CommitBuilder) WithSHA(sha string) *CommitBuilder {
	b.sha = sha
	return b
}

// WithMessage sets the full commit message.
func (b *CommitBuilder) WithMessage(message string) *CommitBuilder {
	b.message = message
	return b
}

// WithParent sets the first-parent sha.
func (b *CommitBuilder) WithParent(sha string) *CommitBuilder {
	b.parentSHA = sha
	return b
}

// WithPaths sets the modified file paths.
func (b *CommitBuilder) WithPaths(paths ...string) *CommitBuilder {
	b.paths = paths
	return b
}

// Build creates the commit (satisfies testkit.Builder interface).
func (b *CommitBuilder) Build() interface{} {
	return b.BuildCommit()
}

// BuildCommit creates the commit with a concrete return type.
func (b *CommitBuilder) BuildCommit() entities.CommitInfo {
	return entities.CommitInfo{
		SHA:           b.sha,
		Message:       b.message,
		ParentSHA:     b.parentSHA,
		ModifiedPaths: b.paths,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *CommitBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	commitCounter++
	b.sha = fmt.Sprintf("%040d", commitCounter)
	b.message = "chore: test commit"
	b.parentSHA = ""
	b.paths = []string{"main.go"}
	return b
}

// Clone creates a deep copy of the CommitBuilder.
func (b *CommitBuilder) Clone() testkit.Builder {
	paths := make([]string, len(b.paths))
	copy(paths, b.paths)
	return &CommitBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		sha:         b.sha,
		message:     b.message,
		parentSHA:   b.parentSHA,
		paths:       paths,
	}
}

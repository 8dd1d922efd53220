package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
	"github.com/rios0rios0/autorelease/internal/domain/repositories"
)

// GitHistoryRepository implements repositories.HistoryRepository on a local
// clone through go-git. No git binary is required.
type GitHistoryRepository struct {
	repo *git.Repository
	path string
}

// NewGitHistoryRepository opens the repository at path.
func NewGitHistoryRepository(path string) (repositories.HistoryRepository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %q: %w", path, err)
	}
	return &GitHistoryRepository{repo: repo, path: path}, nil
}

func (it *GitHistoryRepository) CommitInfo(_ context.Context, sha string) (entities.CommitInfo, error) {
	commit, err := it.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return entities.CommitInfo{}, fmt.Errorf("failed to read commit %q: %w", sha, err)
	}
	return it.toCommitInfo(commit)
}

func (it *GitHistoryRepository) toCommitInfo(commit *object.Commit) (entities.CommitInfo, error) {
	parent := ""
	if commit.NumParents() > 0 {
		parent = commit.ParentHashes[0].String()
	}

	stats, err := commit.Stats()
	if err != nil {
		return entities.CommitInfo{}, fmt.Errorf(
			"failed to compute modified paths of %q: %w", commit.Hash, err)
	}
	paths := make([]string, 0, len(stats))
	for _, stat := range stats {
		paths = append(paths, stat.Name)
	}

	return entities.NewCommitInfo(commit.Hash.String(), commit.Message, parent, paths), nil
}

// CommitSequence walks history from `to` (HEAD when empty) back to `from`,
// exclusive, and returns the commits oldest first. Both ends accept any
// revision go-git can resolve: a sha, a branch or a tag name.
func (it *GitHistoryRepository) CommitSequence(
	ctx context.Context,
	from, to string,
) ([]entities.CommitInfo, error) {
	toHash, err := it.resolveCommit(to)
	if err != nil {
		return nil, err
	}
	fromHash := plumbing.ZeroHash
	if from != "" {
		if fromHash, err = it.resolveCommit(from); err != nil {
			return nil, err
		}
	}

	iter, err := it.repo.Log(&git.LogOptions{From: toHash})
	if err != nil {
		return nil, fmt.Errorf("failed to walk history from %q: %w", to, err)
	}
	defer iter.Close()

	var newestFirst []entities.CommitInfo
	err = iter.ForEach(func(commit *object.Commit) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if from != "" && commit.Hash == fromHash {
			return errStopIteration
		}
		info, infoErr := it.toCommitInfo(commit)
		if infoErr != nil {
			return infoErr
		}
		newestFirst = append(newestFirst, info)
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		return nil, err
	}

	oldestFirst := make([]entities.CommitInfo, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		oldestFirst = append(oldestFirst, newestFirst[i])
	}
	return oldestFirst, nil
}

var errStopIteration = errors.New("stop iteration")

// resolveCommit resolves a revision to the commit it points at. Annotated
// tags resolve to the tag object, so those get peeled to their target.
func (it *GitHistoryRepository) resolveCommit(ref string) (plumbing.Hash, error) {
	if ref == "" {
		ref = "HEAD"
	}
	hash, err := it.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve revision %q: %w", ref, err)
	}
	if tag, tagErr := it.repo.TagObject(*hash); tagErr == nil {
		commit, peelErr := tag.Commit()
		if peelErr != nil {
			return plumbing.ZeroHash, fmt.Errorf("failed to peel tag %q: %w", ref, peelErr)
		}
		return commit.Hash, nil
	}
	return *hash, nil
}

func (it *GitHistoryRepository) CurrentSHA(_ context.Context) (string, error) {
	head, err := it.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

func (it *GitHistoryRepository) ParentSHA(ctx context.Context, sha string) (string, error) {
	info, err := it.CommitInfo(ctx, sha)
	if err != nil {
		return "", err
	}
	return info.ParentSHA, nil
}

func (it *GitHistoryRepository) TagExists(_ context.Context, name string) (bool, error) {
	_, err := it.repo.Tag(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, git.ErrTagNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to query tag %q: %w", name, err)
}

func (it *GitHistoryRepository) CreateTag(_ context.Context, name, message string) error {
	head, err := it.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to read HEAD: %w", err)
	}

	_, err = it.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Message: message,
		Tagger: &object.Signature{
			Name:  "autorelease",
			Email: "autorelease@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create tag %q: %w", name, err)
	}
	return nil
}

// PushTag pushes one tag ref to origin. A repository without an origin
// remote keeps the tag local; an up-to-date remote counts as pushed.
func (it *GitHistoryRepository) PushTag(ctx context.Context, name string) error {
	refspec := gitconfig.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", name, name))
	//nolint:exhaustruct // Defaults are fine for the remaining fields
	err := it.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: git.DefaultRemoteName,
		RefSpecs:   []gitconfig.RefSpec{refspec},
	})
	if err == nil || errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if errors.Is(err, git.ErrRemoteNotFound) {
		return nil
	}
	return fmt.Errorf("failed to push tag %q: %w", name, err)
}

// LatestVersionTag returns the highest version tag carrying the prefix,
// e.g. prefix "v" matches "v1.2.3" and prefix "api/v" matches "api/v2.0.0".
func (it *GitHistoryRepository) LatestVersionTag(_ context.Context, prefix string) (string, error) {
	iter, err := it.repo.Tags()
	if err != nil {
		return "", fmt.Errorf("failed to list tags: %w", err)
	}
	defer iter.Close()

	best := ""
	var bestVersion entities.Version
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !strings.HasPrefix(name, prefix) {
			return nil
		}
		raw := strings.TrimPrefix(name, prefix)
		// Versions with an emergency patch2 segment are not canonical
		// semver; accept both shapes.
		if !semver.IsValid("v"+raw) && !isExtendedVersion(raw) {
			return nil
		}
		version, parseErr := entities.ParseVersion(raw)
		if parseErr != nil {
			return nil
		}
		if best == "" || version.Compare(bestVersion) > 0 {
			best = name
			bestVersion = version
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return best, nil
}

func isExtendedVersion(raw string) bool {
	return strings.Count(raw, ".") == 3
}

// ResetWorkdir restores the working tree to a clean checkout: hard reset
// plus removal of untracked files and directories.
func (it *GitHistoryRepository) ResetWorkdir(_ context.Context) error {
	worktree, err := it.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}
	if err = worktree.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return fmt.Errorf("failed to hard-reset worktree: %w", err)
	}
	if err = worktree.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return fmt.Errorf("failed to clean worktree: %w", err)
	}
	return nil
}

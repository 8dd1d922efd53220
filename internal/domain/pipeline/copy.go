package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rios0rios0/autorelease/internal/domain/entities"
)

// CollisionError names the first relative path a copy could not resolve
// under its collision policy.
type CollisionError struct {
	RelPath string
	Reason  string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("collision at %q: %s", e.RelPath, e.Reason)
}

// MergeCopy copies src into dst. Directories merge with any existing
// destination directory, recursing into subdirectories; a file-vs-file
// collision at the same relative path is resolved by policy, and a
// file-vs-directory mismatch is always an error regardless of policy.
func MergeCopy(src, dst string, policy entities.CollisionPolicy) error {
	if policy == "" {
		policy = entities.CollisionError
	}
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("copy source %q: %w", src, err)
	}
	return mergeCopy(src, dst, "", info.IsDir(), policy)
}

func mergeCopy(src, dst, rel string, isDir bool, policy entities.CollisionPolicy) error {
	if isDir {
		return mergeCopyDir(src, dst, rel, policy)
	}
	return mergeCopyFile(src, dst, rel, policy)
}

func mergeCopyDir(src, dst, rel string, policy entities.CollisionPolicy) error {
	if existing, err := os.Stat(dst); err == nil && !existing.IsDir() {
		return &CollisionError{RelPath: relOrDot(rel), Reason: "directory would replace a file"}
	}
	if err := os.MkdirAll(dst, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read directory %q: %w", src, err)
	}
	for _, entry := range entries {
		childRel := filepath.Join(rel, entry.Name())
		err = mergeCopy(
			filepath.Join(src, entry.Name()),
			filepath.Join(dst, entry.Name()),
			childRel, entry.IsDir(), policy)
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeCopyFile(src, dst, rel string, policy entities.CollisionPolicy) error {
	if existing, err := os.Stat(dst); err == nil {
		if existing.IsDir() {
			return &CollisionError{RelPath: relOrDot(rel), Reason: "file would replace a directory"}
		}
		switch policy {
		case entities.CollisionKeep:
			return nil
		case entities.CollisionReplace:
			// fall through to the copy below
		default:
			return &CollisionError{RelPath: relOrDot(rel), Reason: "file already exists"}
		}
	}
	return copyFile(src, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err = os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", dst, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dst, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %q: %w", src, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("failed to finish %q: %w", dst, err)
	}
	return nil
}

func relOrDot(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}

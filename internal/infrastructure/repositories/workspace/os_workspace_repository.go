package workspace

import (
	"fmt"
	"os"

	"github.com/rios0rios0/autorelease/internal/domain/repositories"
)

// OSWorkspaceRepository implements repositories.WorkspaceRepository on the
// local filesystem.
type OSWorkspaceRepository struct{}

// NewOSWorkspaceRepository creates the checkout file collaborator.
func NewOSWorkspaceRepository() repositories.WorkspaceRepository {
	return &OSWorkspaceRepository{}
}

func (it *OSWorkspaceRepository) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return string(data), nil
}

func (it *OSWorkspaceRepository) WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

func (it *OSWorkspaceRepository) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

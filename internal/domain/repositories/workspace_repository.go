package repositories

// WorkspaceRepository reads and writes release-tracked files inside the
// repository checkout (version files, changelog files).
type WorkspaceRepository interface {
	ReadFile(path string) (string, error)
	WriteFile(path, content string) error
	FileExists(path string) bool
}

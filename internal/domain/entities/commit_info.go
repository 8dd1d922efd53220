package entities

// CommitInfo is an immutable read view over one commit in the repository
// history: its sha, full message, parent sha and the paths it modified.
// Instances are populated by the history repository and never mutated
// afterwards.
type CommitInfo struct {
	SHA           string
	Message       string
	ParentSHA     string
	ModifiedPaths []string
}

// NewCommitInfo creates a populated CommitInfo.
func NewCommitInfo(sha, message, parentSHA string, modifiedPaths []string) CommitInfo {
	return CommitInfo{
		SHA:           sha,
		Message:       message,
		ParentSHA:     parentSHA,
		ModifiedPaths: modifiedPaths,
	}
}

package domain

import "fmt"

// SyncTarget identifies a file in a GitHub repository that a workspace
// is pushed to or pulled from.
type SyncTarget struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	FilePath string `json:"filePath"`
}

// String returns the target in owner/repo:path form for display.
func (t SyncTarget) String() string {
	return fmt.Sprintf("%s/%s:%s", t.Owner, t.Repo, t.FilePath)
}

// Equal reports whether two targets point at the same repository file.
func (t SyncTarget) Equal(other SyncTarget) bool {
	return t.Owner == other.Owner && t.Repo == other.Repo && t.FilePath == other.FilePath
}

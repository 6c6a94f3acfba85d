package domain

import "github.com/google/uuid"

// DefaultFolderName is used when a folder is created without a name.
const DefaultFolderName = "New Folder"

// Folder is a named grouping node. ParentID references another folder;
// empty means the folder lives at the workspace root.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// NewFolder creates a Folder with defaults for any zero-valued field.
func NewFolder(partial Folder) Folder {
	f := partial
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.Name == "" {
		f.Name = DefaultFolderName
	}
	return f
}

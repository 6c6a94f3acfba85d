package domain

import "time"

// ExportVersion is the only export document version this build reads or
// writes.
const ExportVersion = 1

// ExportDocument is the versioned JSON snapshot of a workspace used for
// GitHub sync and local autosave. Optional fields serialize as explicit
// nulls rather than being omitted, so pulled documents round-trip exactly.
type ExportDocument struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exportedAt"`
	Activities []ExportedActivity `json:"activities"`
	Folders    []ExportedFolder   `json:"folders"`
}

// ExportedActivity is the wire shape of an Activity.
type ExportedActivity struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Request  Request   `json:"request"`
	Response *Response `json:"response"` // null when never sent
	ParentID *string   `json:"parentId"` // null when at workspace root
}

// ExportedFolder is the wire shape of a Folder.
type ExportedFolder struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"` // null when at workspace root
}

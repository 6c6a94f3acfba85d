package workspace

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	apperrors "github.com/Apollo-Blaze/CallSensei/internal/errors"
)

// Serialize converts the given collections into a version-1 export document.
// Absent responses and parents become explicit nulls on the wire.
func Serialize(activities []domain.Activity, folders []domain.Folder) domain.ExportDocument {
	doc := domain.ExportDocument{
		Version:    domain.ExportVersion,
		ExportedAt: time.Now().UTC(),
		Activities: make([]domain.ExportedActivity, len(activities)),
		Folders:    make([]domain.ExportedFolder, len(folders)),
	}

	for i, a := range activities {
		ea := domain.ExportedActivity{
			ID:      a.ID,
			Name:    a.Name,
			URL:     a.URL,
			Request: a.Request.Clone(),
		}
		if a.Response != nil {
			resp := a.Response.Clone()
			ea.Response = &resp
		}
		if a.ParentID != "" {
			parent := a.ParentID
			ea.ParentID = &parent
		}
		doc.Activities[i] = ea
	}

	for i, f := range folders {
		ef := domain.ExportedFolder{ID: f.ID, Name: f.Name}
		if f.ParentID != "" {
			parent := f.ParentID
			ef.ParentID = &parent
		}
		doc.Folders[i] = ef
	}

	return doc
}

// Deserialize reconstructs entities from an export document. Ids are
// preserved exactly so merge flows can key on them. Documents of any other
// version are rejected.
func Deserialize(doc domain.ExportDocument) ([]domain.Activity, []domain.Folder, error) {
	if doc.Version != domain.ExportVersion {
		return nil, nil, fmt.Errorf("version %d: %w", doc.Version, apperrors.ErrUnsupportedVersion)
	}

	activities := make([]domain.Activity, len(doc.Activities))
	for i, ea := range doc.Activities {
		a := domain.NewActivity(ea.Request.Clone())
		a.ID = ea.ID
		a.Name = ea.Name
		a.URL = ea.URL
		if ea.Response != nil {
			resp := ea.Response.Clone()
			a.Response = &resp
		}
		if ea.ParentID != nil {
			a.ParentID = *ea.ParentID
		}
		activities[i] = a
	}

	folders := make([]domain.Folder, len(doc.Folders))
	for i, ef := range doc.Folders {
		partial := domain.Folder{ID: ef.ID, Name: ef.Name}
		if ef.ParentID != nil {
			partial.ParentID = *ef.ParentID
		}
		folders[i] = domain.NewFolder(partial)
	}

	return activities, folders, nil
}

// Encode marshals an export document as indented JSON.
func Encode(doc domain.ExportDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export document: %w", err)
	}
	return data, nil
}

// Decode parses export-document JSON. The version check happens later, in
// Deserialize, so callers can still inspect foreign documents.
func Decode(data []byte) (domain.ExportDocument, error) {
	var doc domain.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.ExportDocument{}, fmt.Errorf("unmarshal export document: %w", err)
	}
	return doc, nil
}

// PartialImport narrows a pulled document down to the selected activities and
// the minimal folder set needed to keep them attached: the deduplicated
// parent chain of every selected activity. Folder structure nothing selected
// lives in is not imported.
func PartialImport(doc domain.ExportDocument, selectedIDs []string) (domain.ExportDocument, error) {
	activities, folders, err := Deserialize(doc)
	if err != nil {
		return domain.ExportDocument{}, err
	}

	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	var keptActivities []domain.Activity
	needed := map[string]bool{}
	for _, a := range activities {
		if !selected[a.ID] {
			continue
		}
		keptActivities = append(keptActivities, a)
		for _, folderID := range AncestorChain(folders, a.ParentID) {
			needed[folderID] = true
		}
	}

	var keptFolders []domain.Folder
	for _, f := range folders {
		if needed[f.ID] {
			keptFolders = append(keptFolders, f)
		}
	}

	out := Serialize(keptActivities, keptFolders)
	out.ExportedAt = doc.ExportedAt
	return out, nil
}

package workspace

import "github.com/Apollo-Blaze/CallSensei/internal/domain"

// parentIndex builds a folder-id → parent-id lookup table.
func parentIndex(folders []domain.Folder) map[string]string {
	parents := make(map[string]string, len(folders))
	for _, f := range folders {
		parents[f.ID] = f.ParentID
	}
	return parents
}

// wouldCreateCycle reports whether reparenting dragID under dropID would make
// dragID its own ancestor. It walks the parent chain upward from dropID; the
// workspace root (empty id) terminates the walk. O(depth), which is fine at
// user-workspace scale.
func wouldCreateCycle(folders []domain.Folder, dragID, dropID string) bool {
	if dropID == "" {
		return false // moving to root is always valid
	}
	if dropID == dragID {
		return true
	}

	parents := parentIndex(folders)
	seen := make(map[string]bool, len(folders)) // guard against pre-existing corruption
	for current := dropID; current != ""; current = parents[current] {
		if current == dragID {
			return true
		}
		if seen[current] {
			return true
		}
		seen[current] = true
	}
	return false
}

// descendantFolderIDs returns the set containing rootID and the ids of every
// folder transitively parented under it.
func descendantFolderIDs(folders []domain.Folder, rootID string) map[string]bool {
	ids := map[string]bool{rootID: true}

	// Children may appear before their parents in the slice, so sweep until
	// the set stops growing.
	for {
		grew := false
		for _, f := range folders {
			if ids[f.ID] {
				continue
			}
			if f.ParentID != "" && ids[f.ParentID] {
				ids[f.ID] = true
				grew = true
			}
		}
		if !grew {
			return ids
		}
	}
}

// AncestorChain returns folderID's parent chain from the folder itself up to
// (but excluding) the root, in child-to-ancestor order. Unknown ids yield an
// empty chain.
func AncestorChain(folders []domain.Folder, folderID string) []string {
	parents := parentIndex(folders)
	if _, ok := parents[folderID]; !ok {
		return nil
	}

	var chain []string
	seen := make(map[string]bool, len(folders))
	for current := folderID; current != "" && !seen[current]; current = parents[current] {
		seen[current] = true
		chain = append(chain, current)
	}
	return chain
}

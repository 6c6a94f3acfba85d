package storage

import (
	"os"
	"path/filepath"
)

const appDirName = ".callsensei"

// DefaultStoragePath returns the default storage location for CallSensei
// Platform-specific paths:
//   - macOS/Linux: ~/.callsensei
//   - Windows: %USERPROFILE%\.callsensei
func DefaultStoragePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

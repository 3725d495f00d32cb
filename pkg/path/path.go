package path

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot walks up from startDir until it finds a directory containing
// targetName (a file, or a directory when isDir is set). Used to locate
// the repo root holding .env and migrations regardless of the caller's
// working directory.
func FindRoot(startDir, targetName string, isDir bool) (string, error) {
	dir := startDir

	for {
		info, err := os.Stat(filepath.Join(dir, targetName))
		if err == nil && info.IsDir() == isDir {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find %s starting from %s", targetName, startDir)
		}
		dir = parent
	}
}

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Exists reports whether the named file or directory exists.
func exists(fs afero.Fs, path string, isDir bool) bool {
	if path == "" {
		log.Debug("Path is empty")
		return false
	}

	info, err := fs.Stat(path)
	if err != nil {
		return false
	}

	return isDir == info.IsDir()
}

// FolderExists reports whether the provided directory exists.
func FolderExists(fs afero.Fs, path string) bool {
	return exists(fs, path, true)
}

// FileExists reports whether the provided file exists.
func FileExists(fs afero.Fs, path string) bool {
	return exists(fs, path, false)
}

// EnsureParentDir creates the directory that will hold path, if missing.
func EnsureParentDir(fs afero.Fs, path string) error {
	directory := filepath.Dir(filepath.Clean(path))
	if FolderExists(fs, directory) {
		return nil
	}
	if err := fs.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %v: %w", directory, err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand %q: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// WithinRoot reports whether path lies inside root. Both must be absolute.
func WithinRoot(path, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// CheckWithinRoot returns an OutsideRootError when root is set and path escapes it.
func CheckWithinRoot(path, root string) error {
	if root == "" {
		return nil
	}
	if !WithinRoot(path, root) {
		return OutsideRootError{Path: path, Root: root}
	}
	return nil
}

package folder

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const trimmedSuffix = "_trimmed"

var ErrNotTrimmedFolder = errors.New("not a trimmed folder")

// TrimmedFolderName returns the name of the folder holding the snippets of an annotation key.
func TrimmedFolderName(key string) string {
	return key + trimmedSuffix
}

// TrimmedFolders returns the sorted paths of the root's subdirectories whose name contains "trim".
func TrimmedFolders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list trimmed folders: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.Contains(e.Name(), "trim") {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}

	sort.Strings(dirs)

	return dirs, nil
}

// AnnotationKey derives the annotation key from a trimmed folder path.
func AnnotationKey(folderPath string) (string, error) {
	name := filepath.Base(folderPath)
	idx := strings.Index(name, trimmedSuffix)
	if idx <= 0 {
		return "", fmt.Errorf("%w: %s", ErrNotTrimmedFolder, folderPath)
	}
	return name[:idx], nil
}

// Remove removes a folder and its contents.
func Remove(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove folder: %w", err)
	}
	return nil
}

// SampleIndices returns k distinct random indices within [0, n).
func SampleIndices(rng *rand.Rand, n, k int) ([]int, error) {
	if k < 0 || k > n {
		return nil, fmt.Errorf("cannot sample %d of %d indices", k, n)
	}
	return rng.Perm(n)[:k], nil
}

// WriteFile writes data to a temporary file within the target directory and renames it to path.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

package file

import (
	"errors"
	"os"
	"path/filepath"
)

var errEmptyPath = errors.New("empty file path")

// Write writes selected data to a file, creating any missing parent
// directories
func Write(file string, data []byte) error {
	if file == "" {
		return errEmptyPath
	}
	basePath := filepath.Dir(file)
	if !Exists(basePath) {
		if err := os.MkdirAll(basePath, 0o770); err != nil {
			return err
		}
	}
	return os.WriteFile(file, data, 0o770)
}

// Exists returns whether or not a file or path exists
func Exists(name string) bool {
	_, err := os.Stat(name)
	return !errors.Is(err, os.ErrNotExist)
}

package format

import (
	"fmt"
	"os"
	"path/filepath"
)

const responseFileMode = 0644

// WriteResponseFile writes rendered output to name inside dir and returns the full path
func WriteResponseFile(dir, name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("no output file name given")
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, name)
	}

	if err := os.WriteFile(path, data, responseFileMode); err != nil {
		return "", fmt.Errorf("couldn't write response file: %w", err)
	}

	return path, nil
}

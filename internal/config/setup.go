package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vedsharma/soar/internal/version"
	"gopkg.in/yaml.v3"
)

const (
	fileMode = 0644
	dirMode  = 0755
)

// Default returns the config written by 'soar config setup'
func Default() Config {
	return Config{
		Version: version.Version,
		Logs: LogConfig{
			ShowHTTP:  true,
			UseColour: true,
		},
		HTTP: HTTPConfig{
			SaveRequests:   true,
			RetryRatelimit: true,
		},
		Core: CoreConfig{
			SaveErrorLogs: true,
		},
	}
}

func marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// Create writes a default config to path. A directory path gets the local
// config file name appended. Existing soar configs are only replaced when
// force is set and other files are never overwritten.
func Create(path string, force bool) (string, error) {
	if path == "" {
		return "", errors.New("no config path given")
	}

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		path = filepath.Join(path, LocalFile)
		info, err = os.Stat(path)
	}

	if err == nil {
		if info.IsDir() {
			return "", errors.New("invalid file path, cannot be a directory")
		}
		if !strings.HasSuffix(path, GlobalFile) && !strings.HasSuffix(path, LocalFile) {
			return "", errors.New("refusing to overwrite non-soar config file")
		}
		if !force {
			return "", errors.New("a soar config already exists at this file path")
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := Default()
	buf, err := marshal(&cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, buf, fileMode); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}

	return path, nil
}

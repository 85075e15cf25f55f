package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// GlobalFile is the config file name inside the library directory
	GlobalFile = "config.yml"
	// LocalFile is the workspace config file that overrides the global one
	LocalFile = ".soar-local.yml"

	// API surfaces
	Application = "application"
	Client      = "client"
)

// Auth is the base URL and bearer key of one API surface
type Auth struct {
	URL string `koanf:"url" yaml:"url"`
	Key string `koanf:"key" yaml:"key"`
}

// LogConfig holds presentation toggles
type LogConfig struct {
	ShowDebug     bool `koanf:"show_debug" yaml:"show_debug"`
	ShowHTTP      bool `koanf:"show_http" yaml:"show_http"`
	ShowWebsocket bool `koanf:"show_websocket" yaml:"show_websocket"`
	UseColour     bool `koanf:"use_colour" yaml:"use_colour"`
}

// HTTPConfig holds the toggles consumed by the request session
type HTTPConfig struct {
	SaveRequests   bool `koanf:"save_requests" yaml:"save_requests"`
	SendFullBody   bool `koanf:"send_full_body" yaml:"send_full_body"`
	RetryRatelimit bool `koanf:"retry_ratelimit" yaml:"retry_ratelimit"`
}

// CoreConfig holds process-wide behaviour toggles
type CoreConfig struct {
	IgnoreWarnings bool `koanf:"ignore_warnings" yaml:"ignore_warnings"`
	StopAtSysError bool `koanf:"stop_at_sys_error" yaml:"stop_at_sys_error"`
	SaveErrorLogs  bool `koanf:"save_error_logs" yaml:"save_error_logs"`
}

// Config is a snapshot of the configuration file
type Config struct {
	Version     string     `koanf:"version" yaml:"version"`
	Application Auth       `koanf:"application" yaml:"application"`
	Client      Auth       `koanf:"client" yaml:"client"`
	Logs        LogConfig  `koanf:"logs" yaml:"logs"`
	HTTP        HTTPConfig `koanf:"http" yaml:"http"`
	Core        CoreConfig `koanf:"core" yaml:"core"`
}

// Auth returns the auth block for an API surface
func (c *Config) Auth(surface string) Auth {
	if surface == Client {
		return c.Client
	}
	return c.Application
}

// Resolver locates and loads the configuration file. It replaces reading the
// library location from the environment at every call site.
type Resolver struct {
	// LibraryPath is the soar library directory holding config.yml and logs/
	LibraryPath string
	// WorkDir is searched for the local override file
	WorkDir string
	// EnvPrefix enables environment overrides such as SOAR_HTTP__SAVE_REQUESTS
	// when non-empty
	EnvPrefix string
}

// NewResolver creates a resolver for a library directory and a workspace
func NewResolver(libraryPath, workDir string) *Resolver {
	return &Resolver{LibraryPath: libraryPath, WorkDir: workDir}
}

// GlobalPath returns the global config file path
func (r *Resolver) GlobalPath() string {
	if r.LibraryPath == "" {
		return ""
	}
	return filepath.Join(r.LibraryPath, GlobalFile)
}

// LocalPath returns the workspace config file path
func (r *Resolver) LocalPath() string {
	return filepath.Join(r.WorkDir, LocalFile)
}

// Path resolves which config file Load would read
func (r *Resolver) Path(preferLocal bool) (string, error) {
	if preferLocal && r.WorkDir != "" {
		local := r.LocalPath()
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			return local, nil
		}
	}

	if r.LibraryPath == "" {
		return "", &Error{Kind: MissingEnv}
	}

	if _, err := os.Stat(r.LibraryPath); err != nil {
		return "", &Error{Kind: InvalidPath, Path: r.LibraryPath, Err: err}
	}

	path := r.GlobalPath()
	info, err := os.Stat(path)
	if err != nil {
		return "", &Error{Kind: InvalidPath, Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &Error{Kind: InvalidPath, Path: path, Err: errors.New("path is a directory")}
	}

	return path, nil
}

func (r *Resolver) load(preferLocal, withEnv bool) (*koanf.Koanf, string, error) {
	path, err := r.Path(preferLocal)
	if err != nil {
		return nil, "", err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, path, &Error{Kind: UnreadableOrMalformed, Path: path, Err: err}
	}

	if withEnv && r.EnvPrefix != "" {
		prefix := r.EnvPrefix
		if err := k.Load(env.Provider(prefix, ".", func(s string) string {
			key := strings.ToLower(strings.TrimPrefix(s, prefix))
			// SOAR_PATH names the library itself, not a config key
			if !strings.Contains(key, "__") {
				return ""
			}
			return strings.ReplaceAll(key, "__", ".")
		}), nil); err != nil {
			return nil, path, &Error{Kind: UnreadableOrMalformed, Path: path, Err: err}
		}
	}

	return k, path, nil
}

// Load reads the configuration. With preferLocal the workspace file wins
// over the global one when it exists. Disk reads are the only side effect.
func (r *Resolver) Load(preferLocal bool) (*Config, error) {
	k, path, err := r.load(preferLocal, true)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &Error{Kind: UnreadableOrMalformed, Path: path, Err: err}
	}

	return &cfg, nil
}

// Validate loads the raw config file and reports its first violation, or an
// empty string when the file is well formed. Environment overrides are not
// part of the file and are left out.
func (r *Resolver) Validate(preferLocal bool) (string, error) {
	k, _, err := r.load(preferLocal, false)
	if err != nil {
		return "", err
	}

	return Validate(k.Raw()), nil
}

// Format renders the config as YAML, optionally masking API keys
func (c *Config) Format(hideKeys bool) (string, error) {
	out := *c
	if hideKeys {
		out.Application.Key = mask(out.Application.Key)
		out.Client.Key = mask(out.Client.Key)
	}

	buf, err := marshal(&out)
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return string(buf), nil
}

func mask(key string) string {
	return strings.Repeat("•", len([]rune(key)))
}

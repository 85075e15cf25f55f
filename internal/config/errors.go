package config

import "fmt"

// ErrorKind classifies configuration failures
type ErrorKind int

const (
	// MissingEnv means no library location is configured
	MissingEnv ErrorKind = iota
	// InvalidPath means the configured location does not exist
	InvalidPath
	// UnreadableOrMalformed means the file exists but could not be read or decoded
	UnreadableOrMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case MissingEnv:
		return "missing library location"
	case InvalidPath:
		return "invalid config path"
	case UnreadableOrMalformed:
		return "unreadable config"
	default:
		return "config error"
	}
}

// Error is returned by the resolver when the config cannot be loaded
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s (path: %s): %v", e.Kind, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s (path: %s)", e.Kind, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Hint returns a short remediation for the user
func (e *Error) Hint() string {
	switch e.Kind {
	case MissingEnv:
		return "set SOAR_PATH to the path of the soar library directory"
	case InvalidPath:
		return "run 'soar config setup' to create a new config"
	default:
		return "check the config file syntax with 'soar config validate'"
	}
}

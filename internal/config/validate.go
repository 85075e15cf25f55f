package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// toggles lists every boolean key in the order it is checked
var toggles = []string{
	"logs.show_debug",
	"logs.show_http",
	"logs.show_websocket",
	"logs.use_colour",
	"http.save_requests",
	"http.send_full_body",
	"http.retry_ratelimit",
	"core.ignore_warnings",
	"core.stop_at_sys_error",
	"core.save_error_logs",
}

// Validate checks a raw config document and describes the first violation
// found. Checks run in order: version, both auth blocks, then every toggle.
// An empty string means the document is valid.
func Validate(raw map[string]any) string {
	v, ok := lookup(raw, "version")
	if !ok {
		return "missing required key 'version'"
	}
	version, ok := v.(string)
	if !ok {
		return fmt.Sprintf("'version' must be a string, got %s", typeName(v))
	}
	if err := validate.Var(version, "required,semver"); err != nil {
		return fmt.Sprintf("'version' is not a semantic version (got %q)", version)
	}

	for _, surface := range []string{Application, Client} {
		if msg := validateAuth(raw, surface); msg != "" {
			return msg
		}
	}

	for _, key := range toggles {
		v, ok := lookup(raw, key)
		if !ok {
			return fmt.Sprintf("missing required key '%s'", key)
		}
		if _, ok := v.(bool); !ok {
			return fmt.Sprintf("'%s' must be a boolean, got %s", key, typeName(v))
		}
	}

	return ""
}

func validateAuth(raw map[string]any, surface string) string {
	urlKey := surface + ".url"
	v, ok := lookup(raw, urlKey)
	if !ok {
		return fmt.Sprintf("missing required key '%s'", urlKey)
	}
	url, ok := v.(string)
	if !ok {
		return fmt.Sprintf("'%s' must be a string, got %s", urlKey, typeName(v))
	}
	if url == "" {
		return fmt.Sprintf("'%s' must not be empty", urlKey)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Sprintf("'%s' must start with http:// or https://", urlKey)
	}
	if err := validate.Var(url, "url"); err != nil {
		return fmt.Sprintf("'%s' is not a valid url (got %q)", urlKey, url)
	}

	keyKey := surface + ".key"
	v, ok = lookup(raw, keyKey)
	if !ok {
		return fmt.Sprintf("missing required key '%s'", keyKey)
	}
	key, ok := v.(string)
	if !ok {
		return fmt.Sprintf("'%s' must be a string, got %s", keyKey, typeName(v))
	}
	if key == "" {
		return fmt.Sprintf("'%s' must not be empty", keyKey)
	}

	return ""
}

// lookup walks a dotted path through nested maps
func lookup(raw map[string]any, path string) (any, bool) {
	var cur any = raw
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nothing"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case int, int64, uint64, float64:
		return "a number"
	case map[string]any:
		return "a mapping"
	case []any:
		return "a list"
	}
	return fmt.Sprintf("%T", v)
}

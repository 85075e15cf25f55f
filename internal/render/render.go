// Package render turns decoded panel payloads into JSON, YAML or aligned
// plain text, and compares two renderings line by line.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vedsharma/soar/internal/model"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	JSON = "json"
	YAML = "yaml"
	Text = "text"
)

// Formats lists the accepted output formats
var Formats = []string{JSON, YAML, Text}

// Extension returns the file extension written for a format
func Extension(format string) string {
	switch format {
	case YAML, Text:
		return "." + format
	}
	return "." + JSON
}

// Render encodes a payload. Raw byte payloads are returned unchanged.
// The result never ends in a newline.
func Render(payload any, format string) (string, error) {
	if raw, ok := payload.([]byte); ok {
		return string(raw), nil
	}

	switch format {
	case JSON:
		out, err := model.MarshalJSON(payload)
		if err != nil {
			return "", fmt.Errorf("failed to render json: %w", err)
		}
		return string(out), nil
	case YAML:
		return renderYAML(payload)
	case Text:
		return renderText(payload), nil
	}

	return "", fmt.Errorf("unknown output format %q", format)
}

// indentJSON is the json rendering used by the diff view
func indentJSON(payload any) (string, error) {
	compact, err := model.MarshalJSON(payload)
	if err != nil {
		return "", fmt.Errorf("failed to render json: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return "", fmt.Errorf("failed to render json: %w", err)
	}
	return buf.String(), nil
}

func renderYAML(payload any) (string, error) {
	node, err := yamlNode(payload)
	if err != nil {
		return "", fmt.Errorf("failed to render yaml: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("failed to render yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to render yaml: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

// yamlNode builds a node tree so mappings keep the panel's key order
func yamlNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *model.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range val.Keys() {
			k := &yaml.Node{}
			if err := k.Encode(key); err != nil {
				return nil, err
			}
			child, _ := val.Get(key)
			c, err := yamlNode(child)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			n.Content = append(n.Content, k, c)
		}
		return n, nil

	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			c, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil

	case json.Number:
		n := &yaml.Node{}
		if i, err := val.Int64(); err == nil {
			return n, n.Encode(i)
		}
		f, err := val.Float64()
		if err != nil {
			return nil, err
		}
		return n, n.Encode(f)
	}

	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func renderText(v any) string {
	switch val := v.(type) {
	case *model.Object:
		return textObject(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = renderText(item)
		}
		return strings.Join(parts, "\n")
	}
	return scalar(v)
}

func textObject(obj *model.Object) string {
	width := maxKeyLength(obj)
	lines := make([]string, 0, obj.Len())

	for _, key := range obj.Keys() {
		val, _ := obj.Get(key)
		line := key + ": " + strings.Repeat(" ", width-utf8.RuneCountInString(key))

		switch val.(type) {
		case *model.Object, []any:
			line += "<object ref>\n\n" + renderText(val) + "\n"
		default:
			line += scalar(val)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// maxKeyLength is the longest key of obj and of every object nested in it,
// not descending into arrays
func maxKeyLength(obj *model.Object) int {
	width := 0
	for _, key := range obj.Keys() {
		if n := utf8.RuneCountInString(key); n > width {
			width = n
		}
		val, _ := obj.Get(key)
		if nested, ok := val.(*model.Object); ok {
			if n := maxKeyLength(nested); n > width {
				width = n
			}
		}
	}
	return width
}

func scalar(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}

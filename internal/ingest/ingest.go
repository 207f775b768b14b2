// Package ingest turns the textual initial value a host supplies into a tree.
// Every failure degrades to an empty tree.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sortable-cli/internal/model"

	"gopkg.in/yaml.v3"
)

// AttributeNames are the accepted spellings of the initial value attribute, in
// lookup order.
var AttributeNames = []string{"initialValue", "initialvalue", "data-initial-value"}

// Lookup returns the raw initial value from attrs. Exact names win over
// case-insensitive matches.
func Lookup(attrs map[string]string) (string, bool) {
	for _, k := range AttributeNames {
		if v, ok := attrs[k]; ok && v != "" {
			return v, true
		}
	}
	for k, v := range attrs {
		if v == "" {
			continue
		}
		for _, name := range AttributeNames {
			if strings.EqualFold(k, name) {
				return v, true
			}
		}
	}
	return "", false
}

// FromAttributes parses the initial value found in attrs. A missing attribute
// yields an empty tree silently; a malformed one yields an empty tree and one
// diagnostic on log.
func FromAttributes(attrs map[string]string, log *slog.Logger) model.Tree {
	raw, ok := Lookup(attrs)
	if !ok {
		return model.Tree{}
	}
	t, err := Parse([]byte(raw), "json")
	if err != nil {
		if log == nil {
			log = slog.Default()
		}
		log.Error("failed to parse initial value", "raw", raw, "error", err)
		return model.Tree{}
	}
	return t
}

// Parse decodes a json or yaml encoded tree. A literal null decodes to an empty tree.
func Parse(raw []byte, format string) (model.Tree, error) {
	var t model.Tree
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			return nil, fmt.Errorf("decode json: trailing data")
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown input format: %s", format)
	}
	if t == nil {
		t = model.Tree{}
	}
	return t, nil
}

// ReadFile loads a tree from disk, picking the format from the extension.
func ReadFile(path string) (model.Tree, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	return Parse(b, format)
}

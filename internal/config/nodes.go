package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// NodeConfig declares one trigger node: which click events it listens to
// and, for link-scoped nodes, which link.
type NodeConfig struct {
	ID     string `yaml:"id"`
	Event  string `yaml:"event"`
	LinkID int64  `yaml:"linkId"`
}

// Node ids become the last segment of the webhook callback path.
var nodeIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._~-]*$`)

type nodesFile struct {
	Nodes []NodeConfig `yaml:"nodes"`
}

// LoadNodes reads trigger node definitions from a YAML file. A missing file
// yields no nodes.
func LoadNodes(path string) ([]NodeConfig, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read nodes file: %w", err)
	}
	return ParseNodes(raw)
}

// ParseNodes decodes and validates a nodes document.
func ParseNodes(raw []byte) ([]NodeConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var doc nodesFile
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse nodes file: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("nodes[%d]: id is required", i)
		}
		if !nodeIDPattern.MatchString(n.ID) {
			return nil, fmt.Errorf("nodes[%d]: id %q must be a single URL path segment of letters, digits, '.', '_', '~' or '-'", i, n.ID)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, fmt.Errorf("nodes[%d]: duplicate id %q", i, n.ID)
		}
		seen[n.ID] = struct{}{}

		switch n.Event {
		case "workspaceClick":
		case "linkClick":
			if n.LinkID <= 0 {
				return nil, fmt.Errorf("nodes[%d]: linkClick requires a positive linkId", i)
			}
		default:
			return nil, fmt.Errorf("nodes[%d]: unknown event %q", i, n.Event)
		}
	}
	return doc.Nodes, nil
}

package meetvalues

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults are served when no values file is configured.
var Defaults = []string{"Collaboration", "Respect", "Curiosity", "Coexistence", "Ownership"}

type fileShape struct {
	Values []string `yaml:"values"`
}

// Load reads a YAML (or JSON, which YAML accepts) list of values. The file
// may be a bare list or a mapping with a "values" key. An empty path
// returns the defaults.
func Load(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read meet values: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("parse meet values: %w", err)
	}
	if len(node.Content) == 0 {
		return Default(), nil
	}
	var list []string
	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		if err := node.Content[0].Decode(&list); err != nil {
			return nil, fmt.Errorf("parse meet values: %w", err)
		}
	case yaml.MappingNode:
		var shape fileShape
		if err := node.Content[0].Decode(&shape); err != nil {
			return nil, fmt.Errorf("parse meet values: %w", err)
		}
		list = shape.Values
	default:
		return nil, fmt.Errorf("parse meet values: expected a list")
	}
	out := make([]string, 0, len(list))
	seen := map[string]bool{}
	for _, v := range list {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return Default(), nil
	}
	return out, nil
}

// Default returns a copy of Defaults.
func Default() []string {
	return append([]string(nil), Defaults...)
}

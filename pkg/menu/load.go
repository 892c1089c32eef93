package menu

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned when a menu file is neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported menu file format")

// Load reads a menu definition from a .yaml, .yml or .json file.
func Load(path string) (*Menu, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a menu definition. JSON is valid YAML, so both are accepted.
func Parse(data []byte) (*Menu, error) {
	var m Menu
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	m.BasePath = strings.TrimSuffix(m.BasePath, "/")
	return &m, nil
}

// Validate rejects trees that share an item between two parents or contain
// a nil entry. Decoded trees cannot cycle, but programmatic ones can.
func (m *Menu) Validate() error {
	seen := make(map[*Item]struct{})
	var check func(items []*Item) error
	check = func(items []*Item) error {
		for _, item := range items {
			if item == nil {
				return errors.New("menu contains an empty item")
			}
			if _, dup := seen[item]; dup {
				return fmt.Errorf("menu item %q appears more than once", item.Label)
			}
			seen[item] = struct{}{}
			if err := check(item.Items); err != nil {
				return err
			}
		}
		return nil
	}
	return check(m.Items)
}

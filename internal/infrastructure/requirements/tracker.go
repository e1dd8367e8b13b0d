// Package requirements tracks which tests cover which requirements and
// dumps the mapping as YAML for downstream traceability tooling.
package requirements

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tracker persists a test-name to requirement-tag mapping at Path. A
// tracker with an empty path is disabled.
type Tracker struct {
	Path string
}

// Enabled reports whether an output path is configured.
func (t *Tracker) Enabled() bool {
	return t.Path != ""
}

// Add records that test covers the given requirement. Only "REQ-" tags
// are tracked; anything else is ignored, mirroring how requirement lines
// are picked out of test descriptions.
func (t *Tracker) Add(test, requirement string) error {
	if !t.Enabled() {
		return nil
	}
	requirement = strings.TrimSuffix(strings.TrimSpace(requirement), ".")
	if !strings.HasPrefix(requirement, "REQ-") {
		return nil
	}

	mapping, err := t.Load()
	if err != nil {
		return err
	}
	mapping[test] = requirement
	return t.write(mapping)
}

// Load reads the current mapping; a missing file is an empty mapping.
func (t *Tracker) Load() (map[string]string, error) {
	mapping := make(map[string]string)
	if !t.Enabled() {
		return mapping, nil
	}

	data, err := os.ReadFile(t.Path) // #nosec G304 - path comes from config
	if errors.Is(err, os.ErrNotExist) {
		return mapping, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("requirement coverage file: %w", err)
	}
	return mapping, nil
}

func (t *Tracker) write(mapping map[string]string) error {
	data, err := yaml.Marshal(mapping)
	if err != nil {
		return err
	}
	return os.WriteFile(t.Path, data, 0o600)
}

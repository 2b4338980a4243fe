// Package catalog describes the movements, disciplines and activity types the
// wizard offers. A catalog ships with the binary and may be replaced by a
// YAML file or by the backend's movement list.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var bundledYAML []byte

// Movement is an exercise the user may require, prefer or exclude.
type Movement struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Equipment string `yaml:"equipment,omitempty" json:"equipment,omitempty"`
}

// Discipline is a training style that can receive discipline weight.
type Discipline struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Activity is an enjoyable activity type offered alongside "custom".
type Activity struct {
	Type string `yaml:"type" json:"type"`
	Name string `yaml:"name" json:"name"`
}

// Catalog is the full set of choices shown by the wizard.
type Catalog struct {
	Version     int          `yaml:"version"`
	Movements   []Movement   `yaml:"movements"`
	Disciplines []Discipline `yaml:"disciplines"`
	Activities  []Activity   `yaml:"activities"`
}

// Bundled returns the catalog compiled into the binary.
func Bundled() *Catalog {
	cat, err := Parse(bundledYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: bundled catalog is invalid: %v", err))
	}
	return cat
}

// Load reads a catalog file. An empty path yields the bundled catalog.
func Load(path string) (*Catalog, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return Bundled(), nil
	}
	data, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", trimmed, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", filepath.Base(trimmed), err)
	}
	return cat, nil
}

// Parse decodes and validates a YAML catalog payload.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog payload is empty")
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	cat.normalize()
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// WithMovements returns a copy of c whose movement list is replaced.
// Invalid or empty lists leave the original movements in place.
func (c *Catalog) WithMovements(movements []Movement) (*Catalog, error) {
	out := *c
	out.Movements = append([]Movement(nil), movements...)
	out.normalize()
	if len(out.Movements) == 0 {
		return c, fmt.Errorf("catalog: movement list is empty")
	}
	if err := validateMovements(out.Movements); err != nil {
		return c, err
	}
	return &out, nil
}

// Movement looks up a movement by id.
func (c *Catalog) Movement(id string) (Movement, bool) {
	for _, m := range c.Movements {
		if m.ID == id {
			return m, true
		}
	}
	return Movement{}, false
}

// DisciplineName returns the display name for a discipline id.
func (c *Catalog) DisciplineName(id string) string {
	for _, d := range c.Disciplines {
		if d.ID == id {
			return d.Name
		}
	}
	return id
}

func (c *Catalog) normalize() {
	if c.Version == 0 {
		c.Version = 1
	}
	for i := range c.Movements {
		m := &c.Movements[i]
		m.ID = strings.TrimSpace(m.ID)
		m.Name = strings.TrimSpace(m.Name)
		m.Pattern = strings.ToLower(strings.TrimSpace(m.Pattern))
		m.Equipment = strings.ToLower(strings.TrimSpace(m.Equipment))
		if m.Name == "" {
			m.Name = m.ID
		}
	}
	for i := range c.Disciplines {
		d := &c.Disciplines[i]
		d.ID = strings.TrimSpace(d.ID)
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			d.Name = d.ID
		}
	}
	for i := range c.Activities {
		a := &c.Activities[i]
		a.Type = strings.TrimSpace(a.Type)
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			a.Name = a.Type
		}
	}
}

func (c *Catalog) validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported catalog version %d", c.Version)
	}
	if err := validateMovements(c.Movements); err != nil {
		return err
	}
	seen := map[string]struct{}{}
	for i, d := range c.Disciplines {
		if d.ID == "" {
			return fmt.Errorf("disciplines[%d]: id is required", i)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("disciplines[%d]: duplicate id %q", i, d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	seen = map[string]struct{}{}
	for i, a := range c.Activities {
		if a.Type == "" {
			return fmt.Errorf("activities[%d]: type is required", i)
		}
		if a.Type == "custom" {
			return fmt.Errorf("activities[%d]: %q is reserved", i, a.Type)
		}
		if _, dup := seen[a.Type]; dup {
			return fmt.Errorf("activities[%d]: duplicate type %q", i, a.Type)
		}
		seen[a.Type] = struct{}{}
	}
	return nil
}

func validateMovements(movements []Movement) error {
	seen := map[string]struct{}{}
	for i, m := range movements {
		if m.ID == "" {
			return fmt.Errorf("movements[%d]: id is required", i)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("movements[%d]: duplicate id %q", i, m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}

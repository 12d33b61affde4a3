package insights

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Outcome is the direction a pattern is expected to push a metric. It is
// descriptive only and never used for matching.
type Outcome struct {
	Metric    string `yaml:"metric"`
	Direction string `yaml:"direction"`
}

// PatternDefinition is one immutable catalog entry.
type PatternDefinition struct {
	ID             string
	Name           string
	Category       Category
	Triggers       []Trigger
	Outcome        Outcome
	WindowDays     int
	MinOccurrences int
	Template       string
}

type catalogFile struct {
	Patterns []struct {
		ID             string        `yaml:"id"`
		Name           string        `yaml:"name"`
		Category       Category      `yaml:"category"`
		WindowDays     int           `yaml:"window_days"`
		MinOccurrences int           `yaml:"min_occurrences"`
		Triggers       []TriggerSpec `yaml:"triggers"`
		Outcome        Outcome       `yaml:"outcome"`
		Template       string        `yaml:"template"`
	} `yaml:"patterns"`
}

// ParseCatalog decodes and compiles a YAML pattern catalog.
func ParseCatalog(data []byte) ([]PatternDefinition, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pattern catalog: %w", err)
	}

	seen := make(map[string]bool, len(file.Patterns))
	defs := make([]PatternDefinition, 0, len(file.Patterns))
	for _, p := range file.Patterns {
		if p.ID == "" {
			return nil, fmt.Errorf("pattern %q has no id", p.Name)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate pattern id %q", p.ID)
		}
		seen[p.ID] = true

		if p.WindowDays <= 0 || p.MinOccurrences <= 0 {
			return nil, fmt.Errorf("pattern %s: window_days and min_occurrences must be positive", p.ID)
		}
		if len(p.Triggers) == 0 {
			return nil, fmt.Errorf("pattern %s: no triggers", p.ID)
		}

		triggers := make([]Trigger, 0, len(p.Triggers))
		for _, spec := range p.Triggers {
			t, err := CompileTrigger(spec)
			if err != nil {
				return nil, fmt.Errorf("pattern %s: %w", p.ID, err)
			}
			triggers = append(triggers, t)
		}

		defs = append(defs, PatternDefinition{
			ID:             p.ID,
			Name:           p.Name,
			Category:       p.Category,
			Triggers:       triggers,
			Outcome:        p.Outcome,
			WindowDays:     p.WindowDays,
			MinOccurrences: p.MinOccurrences,
			Template:       p.Template,
		})
	}
	return defs, nil
}

// DefaultCatalog returns the built-in pattern catalog.
func DefaultCatalog() ([]PatternDefinition, error) {
	return ParseCatalog(defaultCatalogYAML)
}

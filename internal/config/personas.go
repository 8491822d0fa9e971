package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Persona is one selectable entry of the persona selector.
// The ID is sent to the backend as is; the client attaches no meaning to it.
type Persona struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Description string `yaml:"description,omitempty"`
}

// DisplayName returns the label, or the id when no label is set
func (p Persona) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.ID
}

// PersonaCatalog is the fixed set of personas offered by the selector
type PersonaCatalog struct {
	Default  string    `yaml:"default,omitempty"`
	Personas []Persona `yaml:"personas"`
}

// DefaultPersonas returns the personas served by the hosted backend
func DefaultPersonas() []Persona {
	return []Persona{
		{
			ID:          "movie_expert",
			Label:       "Movie Expert",
			Description: "Enthusiastic film buff: actors, directors, genres and trivia",
		},
		{
			ID:          "travel_guide",
			Label:       "Travel Guide",
			Description: "Friendly travel advice with a focus on Portugal",
		},
		{
			ID:          "technical_assistant",
			Label:       "Technical Assistant",
			Description: "Precise, step by step technical help",
		},
	}
}

// DefaultCatalog returns the catalog used when no personas file exists
func DefaultCatalog() *PersonaCatalog {
	return &PersonaCatalog{
		Default:  "movie_expert",
		Personas: DefaultPersonas(),
	}
}

// GetPersonasPath returns the path to the personas file
func GetPersonasPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "personas.yaml"), nil
}

// LoadPersonas loads the persona catalog
func LoadPersonas() (*PersonaCatalog, error) {
	path, err := GetPersonasPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("failed to read personas: %w", err)
	}

	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML persona catalog
func ParseCatalog(data []byte) (*PersonaCatalog, error) {
	var catalog PersonaCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse personas: %w", err)
	}

	if len(catalog.Personas) == 0 {
		return nil, fmt.Errorf("persona catalog is empty")
	}

	seen := make(map[string]bool, len(catalog.Personas))
	for i, p := range catalog.Personas {
		if p.ID == "" {
			return nil, fmt.Errorf("persona %d has no id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("persona '%s' listed twice", p.ID)
		}
		seen[p.ID] = true
	}

	if catalog.Default == "" {
		catalog.Default = catalog.Personas[0].ID
	}

	return &catalog, nil
}

// SavePersonas writes the persona catalog
func SavePersonas(catalog *PersonaCatalog) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to marshal personas: %w", err)
	}

	return os.WriteFile(filepath.Join(configDir, "personas.yaml"), data, 0o600)
}

// Lookup returns the persona with the given id
func (c *PersonaCatalog) Lookup(id string) (Persona, bool) {
	for _, p := range c.Personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// Label returns the display name for id, falling back to the id itself
func (c *PersonaCatalog) Label(id string) string {
	if p, ok := c.Lookup(id); ok {
		return p.DisplayName()
	}
	return id
}

// IDs returns the persona ids in catalog order
func (c *PersonaCatalog) IDs() []string {
	ids := make([]string, len(c.Personas))
	for i, p := range c.Personas {
		ids[i] = p.ID
	}
	return ids
}

// Initial picks the persona to start with: preferred if listed, else the catalog default
func (c *PersonaCatalog) Initial(preferred string) string {
	if preferred != "" {
		if _, ok := c.Lookup(preferred); ok {
			return preferred
		}
	}
	if c.Default != "" {
		return c.Default
	}
	if len(c.Personas) > 0 {
		return c.Personas[0].ID
	}
	return ""
}

package feed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source is one feed endpoint in the catalog.
type Source struct {
	Source string `yaml:"source"`
	Label  string `yaml:"label"`
	Link   string `yaml:"link"`
}

// Catalog is the full feed list, loaded from feeds.yaml.
type Catalog struct {
	Feeds []Source `yaml:"feeds"`
}

// LoadCatalog reads and validates a YAML feed catalog.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(b)
}

// ParseCatalog parses YAML catalog bytes.
func ParseCatalog(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects catalogs with missing links or duplicate labels.
func (c *Catalog) Validate() error {
	if len(c.Feeds) == 0 {
		return fmt.Errorf("catalog: no feeds")
	}
	seen := make(map[string]struct{}, len(c.Feeds))
	for i, f := range c.Feeds {
		if strings.TrimSpace(f.Link) == "" {
			return fmt.Errorf("catalog: feed %d (%s) has no link", i, f.Label)
		}
		if strings.TrimSpace(f.Source) == "" {
			return fmt.Errorf("catalog: feed %d has no source", i)
		}
		key := f.Source + "/" + f.Label
		if _, dup := seen[key]; dup {
			return fmt.Errorf("catalog: duplicate feed %s", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ByLabel returns the sources carrying the given label.
func (c *Catalog) ByLabel(label string) []Source {
	var out []Source
	for _, f := range c.Feeds {
		if f.Label == label {
			out = append(out, f)
		}
	}
	return out
}

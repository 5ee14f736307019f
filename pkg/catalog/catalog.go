// Package catalog loads the reference catalog of developmental domains,
// measures and levels used to seed a store.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed drdp.yaml
var defaultCatalog []byte

// Catalog is the full reference data set.
type Catalog struct {
	Domains []Domain `yaml:"domains"`
	Levels  []Level  `yaml:"levels"`
}

// Domain is a catalog domain and its measures.
type Domain struct {
	Code      string    `yaml:"code"`
	Name      string    `yaml:"name"`
	SortOrder int       `yaml:"sort_order"`
	Measures  []Measure `yaml:"measures"`
}

// Measure is a catalog measure.
type Measure struct {
	Code      string `yaml:"code"`
	Name      string `yaml:"name"`
	SortOrder int    `yaml:"sort_order"`
}

// Level is one step of the rating scale. Lower sort orders are earlier
// developmental levels.
type Level struct {
	Code      string `yaml:"code"`
	Name      string `yaml:"name"`
	SortOrder int    `yaml:"sort_order"`
}

// Default returns the embedded DRDP catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file. An empty path returns the embedded
// default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog. Missing sort orders are filled
// from list position, starting at 1.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c.fillSortOrders()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) fillSortOrders() {
	for i := range c.Domains {
		d := &c.Domains[i]
		if d.SortOrder == 0 {
			d.SortOrder = i + 1
		}
		for j := range d.Measures {
			if d.Measures[j].SortOrder == 0 {
				d.Measures[j].SortOrder = j + 1
			}
		}
	}
	for i := range c.Levels {
		if c.Levels[i].SortOrder == 0 {
			c.Levels[i].SortOrder = i + 1
		}
	}
}

// Validate rejects empty catalogs, blank codes or names, and duplicate codes.
func (c *Catalog) Validate() error {
	if len(c.Domains) == 0 {
		return fmt.Errorf("catalog has no domains")
	}
	if len(c.Levels) == 0 {
		return fmt.Errorf("catalog has no developmental levels")
	}

	domainCodes := make(map[string]bool, len(c.Domains))
	measureCodes := make(map[string]bool)
	for _, d := range c.Domains {
		if err := checkEntry("domain", d.Code, d.Name, domainCodes); err != nil {
			return err
		}
		for _, m := range d.Measures {
			if err := checkEntry("measure", m.Code, m.Name, measureCodes); err != nil {
				return fmt.Errorf("domain %s: %w", d.Code, err)
			}
		}
	}

	levelCodes := make(map[string]bool, len(c.Levels))
	levelOrders := make(map[int]string, len(c.Levels))
	for _, l := range c.Levels {
		if err := checkEntry("level", l.Code, l.Name, levelCodes); err != nil {
			return err
		}
		if other, ok := levelOrders[l.SortOrder]; ok {
			return fmt.Errorf("levels %s and %s share sort_order %d", other, l.Code, l.SortOrder)
		}
		levelOrders[l.SortOrder] = l.Code
	}
	return nil
}

func checkEntry(kind, code, name string, seen map[string]bool) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%s with name %q has no code", kind, name)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s %s has no name", kind, code)
	}
	if seen[code] {
		return fmt.Errorf("duplicate %s code %s", kind, code)
	}
	seen[code] = true
	return nil
}

// MeasureCount returns the number of measures across all domains.
func (c *Catalog) MeasureCount() int {
	n := 0
	for _, d := range c.Domains {
		n += len(d.Measures)
	}
	return n
}

package crop

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Builtin returns a fresh copy of the catalog shipped with furrow.
func Builtin() *Catalog {
	cat, err := Decode(builtinYAML, "builtin.yaml")
	if err != nil {
		// The embedded catalog is covered by tests; failing here is a build defect.
		panic(fmt.Sprintf("decoding builtin catalog: %v", err))
	}
	return cat
}

// Decode parses a catalog from JSON or YAML. The name is only used to pick
// the format by extension; anything that is not .json is treated as YAML.
func Decode(data []byte, name string) (*Catalog, error) {
	var cat Catalog
	if strings.EqualFold(filepath.Ext(name), ".json") {
		if err := json.Unmarshal(data, &cat); err != nil {
			return nil, fmt.Errorf("unmarshaling catalog: %w", err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cat); err != nil {
			return nil, fmt.Errorf("unmarshaling catalog: %w", err)
		}
	}
	cat.normalize()
	return &cat, nil
}

// LoadCatalog reads a catalog file from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Decode(data, path)
}

// SaveCatalog writes a catalog to disk as JSON or YAML depending on the
// file extension.
func SaveCatalog(path string, cat *Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for catalog: %w", err)
	}

	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(cat, "", "  ")
	} else {
		data, err = yaml.Marshal(cat)
	}
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// normalize canonicalizes season labels and drops ones it cannot parse.
func (c *Catalog) normalize() {
	for i := range c.Crops {
		seasons := c.Crops[i].PlantingSeason
		if len(seasons) == 0 {
			continue
		}
		out := seasons[:0]
		seen := make(map[Season]bool, len(seasons))
		for _, s := range seasons {
			if ps, ok := ParseSeason(string(s)); ok && !seen[ps] {
				seen[ps] = true
				out = append(out, ps)
			}
		}
		c.Crops[i].PlantingSeason = out
	}
}

package cometa

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/comon-ext/comon/internal/comguid"
)

// Seed is the yaml shape for pre-populating a Store. The format is a
// concern of this resolver implementation, not of the monitoring
// engine, which only sees the Resolver interface.
type Seed struct {
	Types []struct {
		IID     string   `yaml:"iid"`
		Name    string   `yaml:"name"`
		Methods []string `yaml:"methods"`
	} `yaml:"types"`
	Classes []struct {
		CLSID string `yaml:"clsid"`
		Name  string `yaml:"name"`
	} `yaml:"classes"`
}

// LoadFile merges interface and class metadata from a yaml seed file
// into the store.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read metadata seed: %w", err)
	}
	return s.LoadSeed(data)
}

// LoadSeed merges metadata from yaml-encoded seed data into the store.
// Entries with malformed GUIDs fail the whole load so a typo in a seed
// file is not silently dropped.
func (s *Store) LoadSeed(data []byte) error {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse metadata seed: %w", err)
	}

	for _, t := range seed.Types {
		iid, err := comguid.ParseIID(t.IID)
		if err != nil {
			return fmt.Errorf("type %q: %w", t.Name, err)
		}
		s.AddType(CoType{IID: iid, Name: t.Name, Methods: t.Methods})
	}
	for _, c := range seed.Classes {
		clsid, err := comguid.ParseCLSID(c.CLSID)
		if err != nil {
			return fmt.Errorf("class %q: %w", c.Name, err)
		}
		s.AddClass(CoClass{CLSID: clsid, Name: c.Name})
	}

	s.logger.Info().
		Int("types", len(seed.Types)).
		Int("classes", len(seed.Classes)).
		Msg("Metadata seed loaded")
	return nil
}

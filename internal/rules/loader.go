package rules

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultData embed.FS

// File is the on-disk shape of a rule data file. One file may carry any
// mix of rule sets and bracket tables, typically grouped per country.
type File struct {
	Jurisdictions []JurisdictionRules `yaml:"jurisdictions"`
	Brackets      []BracketTable      `yaml:"brackets"`
}

// LoadDefaults builds a provider from the rule data compiled into the
// binary.
func LoadDefaults() (*Provider, error) {
	p := NewProvider()
	if err := loadFS(p, defaultData, "defaults"); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadDir builds a provider from the .yaml files in dir. Files are read
// in name order so load failures are reported deterministically.
func LoadDir(dir string) (*Provider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read rules dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	p := NewProvider()
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if err := loadBytes(p, data); err != nil {
			return nil, fmt.Errorf("rules file %s: %w", name, err)
		}
	}
	return p, nil
}

func loadFS(p *Provider, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	var files []string
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	for _, name := range files {
		data, err := fs.ReadFile(fsys, filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := loadBytes(p, data); err != nil {
			return fmt.Errorf("embedded rules file %s: %w", name, err)
		}
	}
	return nil
}

func loadBytes(p *Provider, data []byte) error {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	for _, r := range file.Jurisdictions {
		if err := p.Register(r); err != nil {
			return err
		}
	}
	for _, t := range file.Brackets {
		if err := p.RegisterBrackets(t); err != nil {
			return err
		}
	}
	return nil
}

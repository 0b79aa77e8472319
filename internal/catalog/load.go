package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk YAML shape of a catalog.
type Document struct {
	Title      string            `yaml:"title" validate:"required"`
	Version    string            `yaml:"version" validate:"required"`
	Categories map[string]string `yaml:"categories"`
	Questions  []Question        `yaml:"questions" validate:"dive"`
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	return Load(bytes.NewReader(data))
}

// Load decodes and validates a YAML catalog from r.
// Unknown fields are rejected.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrDegenerateCatalog
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	return build(doc), nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

package terminology

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is the file form of a terminology.
//
//	namespaces:
//	  xlink: http://www.w3.org/1999/xlink
//	default_prefix: oxns
//	terms:
//	  - name: mods
//	    root: true
//	    xmlns: http://www.loc.gov/mods/v3
//	  - name: title_info
//	    path: titleInfo
//	    children:
//	      - name: main_title
//	        path: title
//	      - name: language
//	        path: {attribute: lang}
type Definition struct {
	Namespaces map[string]string `yaml:"namespaces,omitempty"`

	// DefaultPrefix defaults to DefaultNamespacePrefix when empty.
	DefaultPrefix string `yaml:"default_prefix,omitempty"`

	Terms []TermSpec `yaml:"terms"`
}

// ParseDefinition decodes a YAML terminology definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse terminology definition: %w", err)
	}
	if len(d.Terms) == 0 {
		return nil, fmt.Errorf("parse terminology definition: %w: no terms declared", ErrInvalidTerm)
	}
	return &d, nil
}

// LoadDefinition reads and decodes a YAML terminology definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read terminology file: %w", err)
	}
	return ParseDefinition(data)
}

// Builder returns a builder loaded with the definition.
func (d *Definition) Builder() *Builder {
	b := NewBuilder()
	if d.DefaultPrefix != "" {
		b.DefaultPrefix(d.DefaultPrefix)
	}
	for prefix, uri := range d.Namespaces {
		b.Namespace(prefix, uri)
	}
	return b.Add(d.Terms...)
}

// Build builds the terminology described by d.
func (d *Definition) Build() (*Terminology, error) {
	return d.Builder().Build()
}

// Marshal encodes the definition as YAML.
func (d *Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

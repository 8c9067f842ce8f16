package config

import (
	"fmt"

	"github.com/c360studio/termxml/terminology"
)

// LoadTerminology builds the terminology c selects: the definition file when
// one is set, otherwise the registered vocabulary.
func (c *Config) LoadTerminology() (*terminology.Terminology, error) {
	if c.Terminology.File == "" {
		terms, err := terminology.Lookup(c.Terminology.Vocabulary)
		if err != nil {
			return nil, fmt.Errorf("vocabulary %q: %w", c.Terminology.Vocabulary, err)
		}
		return terms, nil
	}
	return c.Terminology.build()
}

func (t TerminologyConfig) build() (*terminology.Terminology, error) {
	def, err := terminology.LoadDefinition(t.File)
	if err != nil {
		return nil, err
	}
	if t.DefaultPrefix != "" {
		def.DefaultPrefix = t.DefaultPrefix
	}
	if len(t.Namespaces) > 0 && def.Namespaces == nil {
		def.Namespaces = make(map[string]string, len(t.Namespaces))
	}
	for prefix, uri := range t.Namespaces {
		if _, ok := def.Namespaces[prefix]; !ok {
			def.Namespaces[prefix] = uri
		}
	}
	terms, err := def.Build()
	if err != nil {
		return nil, fmt.Errorf("terminology %s: %w", t.File, err)
	}
	return terms, nil
}

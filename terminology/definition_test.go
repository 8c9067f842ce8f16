package terminology

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefinition(t *testing.T) {
	def, err := LoadDefinition(filepath.Join("testdata", "mods.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://www.w3.org/1999/xlink", def.Namespaces["xlink"])

	terms, err := def.Build()
	require.NoError(t, err)

	assert.Equal(t, "//oxns:mods", terms.RootTerm().XPath())
	assert.Equal(t, "@lang", mustTerm(t, terms, "title_info", "language").XPathRelative())
	assert.Equal(t, `//oxns:name[@type="personal"]/oxns:role/oxns:roleTerm[@type="text"]`,
		mustTerm(t, terms, "person", "role", "text").XPath())
	assert.Equal(t, `oxns:name[not(@type) and @authority="naf"]`, mustTerm(t, terms, "untyped_name").XPathRelative())
	assert.Equal(t, "@href", mustTerm(t, terms, "link").XPathRelative())
	assert.Equal(t, "date", mustTerm(t, terms, "name", "date").DataType)
	assert.Equal(t, "title", mustTerm(t, terms, "title_info", "main_title").Label)

	got, ok, err := XPathWithIndexes(terms, Names("title"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "//oxns:titleInfo/oxns:title", got)

	assert.Equal(t, `//oxns:part/oxns:detail[@type="volume" and contains(oxns:number, "3")]`,
		mustTerm(t, terms, "issue", "volume").XPathConstrained().Apply("3"))
}

func TestDefinition_MarshalRoundTrip(t *testing.T) {
	def, err := LoadDefinition(filepath.Join("testdata", "mods.yaml"))
	require.NoError(t, err)
	original, err := def.Build()
	require.NoError(t, err)

	data, err := def.Marshal()
	require.NoError(t, err)

	again, err := ParseDefinition(data)
	require.NoError(t, err)
	rebuilt, err := again.Build()
	require.NoError(t, err)

	require.Equal(t, original.Names(), rebuilt.Names())
	for _, term := range original.Terms() {
		e, ok := rebuilt.Lookup(term.QualifiedName())
		require.True(t, ok, term.QualifiedName())
		assert.Equal(t, term.XPath(), e.(*Term).XPath(), term.QualifiedName())
	}
}

func TestParseDefinition_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"no terms", "namespaces: {}\n", ErrInvalidTerm},
		{"bad path mapping", "terms:\n  - name: x\n    path: {element: y}\n", ErrInvalidPath},
		{"bad path list", "terms:\n  - name: x\n    path: [a, b]\n", ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	t.Run("attributes must be a mapping", func(t *testing.T) {
		_, err := ParseDefinition([]byte("terms:\n  - name: x\n    attributes: [a]\n"))
		assert.Error(t, err)
	})
}

func TestLoadDefinition_MissingFile(t *testing.T) {
	_, err := LoadDefinition(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDefinition_DefaultPrefix(t *testing.T) {
	def, err := ParseDefinition([]byte(`
default_prefix: m
terms:
  - name: mods
    root: true
    xmlns: http://www.loc.gov/mods/v3
  - name: title_info
    path: titleInfo
`))
	require.NoError(t, err)
	terms, err := def.Build()
	require.NoError(t, err)

	assert.Equal(t, "//m:titleInfo", mustTerm(t, terms, "title_info").XPath())
	assert.Equal(t, map[string]string{"m": "http://www.loc.gov/mods/v3"}, terms.Namespaces())
}

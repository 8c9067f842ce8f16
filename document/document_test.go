package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/termxml/compiler"
	"github.com/c360studio/termxml/metrics"
	"github.com/c360studio/termxml/terminology"
	"github.com/c360studio/termxml/vocabulary/mods"
	"github.com/c360studio/termxml/xmltree"
)

func newCompiler(t *testing.T, opts ...compiler.Option) *compiler.Compiler {
	t.Helper()
	terms, err := mods.Terminology()
	require.NoError(t, err)
	c, err := compiler.New(terms, opts...)
	require.NoError(t, err)
	return c
}

func loadArticle(t *testing.T, opts ...Option) *Document {
	t.Helper()
	d, err := Open(filepath.Join("testdata", "article.xml"), newCompiler(t), xmltree.ParseOptions{}, opts...)
	require.NoError(t, err)
	return d
}

func values(t *testing.T, d *Document, p terminology.Pointer) []string {
	t.Helper()
	got, ok, err := d.TermValues(p)
	require.NoError(t, err)
	require.True(t, ok, p.String())
	return got
}

func TestTermValues(t *testing.T) {
	d := loadArticle(t)

	tests := []struct {
		pointer terminology.Pointer
		want    []string
	}{
		{terminology.Names("person", "first_name"), []string{"Tim", "Ada"}},
		{terminology.NewPointer(terminology.At("person", 1), terminology.Name("last_name")), []string{"Lovelace"}},
		{terminology.Names("title_info", "language"), []string{"eng", "fre"}},
		{terminology.Names("person", "role", "text"), []string{"creator", "author"}},
		{terminology.Names("journal", "journal_title"), []string{"Journal of Testing"}},
		{terminology.Names("journal", "issue", "start_page"), []string{"10"}},
		{terminology.Names("journal", "href"), []string{"http://example.org/journal"}},
		{terminology.Names("organization", "namePart"), []string{"National Science Foundation"}},
		{terminology.Names("person").Where(terminology.Contains("first_name", "Ada")), []string{"LovelaceAdaauthor"}},
	}
	for _, tt := range tests {
		t.Run(tt.pointer.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, values(t, d, tt.pointer))
		})
	}
}

func TestTermValues_Unresolved(t *testing.T) {
	d := loadArticle(t)

	got, ok, err := d.TermValues(terminology.Names("person", "bogus"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestFindByTerm(t *testing.T) {
	d := loadArticle(t)

	nodes, ok, err := d.FindByTerm(terminology.Names("person"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, nodes, 2)

	nodes, ok, err = d.FindByTerm(terminology.Raw(`//oxns:name[@type="corporate"]`))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, nodes, 1)

	nodes, ok, err = d.FindByTerm(terminology.Pointer{})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, nodes, 1)
	assert.Equal(t, "mods", nodes[0].Data)

	_, _, err = d.FindByTerm(terminology.Raw("//oxns:name["))
	assert.Error(t, err)
}

func TestFindByTerms(t *testing.T) {
	d := loadArticle(t)

	nodes, ok, err := d.FindByTerms(map[string]any{":person": 1}, ":first_name")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Ada", xmltree.Text(nodes[0]))

	nodes, ok, err = d.FindByTerms("person", map[string]string{"last_name": "Berners-Lee"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, nodes, 1)

	_, _, err = d.FindByTerms("person", 42)
	assert.ErrorIs(t, err, terminology.ErrInvalidPointer)
}

func TestFindWithValue(t *testing.T) {
	d := loadArticle(t)

	nodes, ok, err := d.FindWithValue(terminology.Names("person", "first_name"), "Ada")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Ada", xmltree.Text(nodes[0]))

	// volume searches its number child.
	nodes, ok, err = d.FindWithValue(terminology.Names("journal", "issue", "volume"), "2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, nodes, 1)

	nodes, ok, err = d.FindWithValue(terminology.Names("journal", "issue", "volume"), "9")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, nodes)

	// Proxies search the content of their target.
	nodes, ok, err = d.FindWithValue(terminology.Names("title"), "Hortensia")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, nodes, 1)

	_, ok, err = d.FindWithValue(terminology.Names("bogus"), "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewBlank(t *testing.T) {
	d, err := NewBlank(newCompiler(t))
	require.NoError(t, err)

	res, err := d.TermValuesAppend(AppendParams{
		Template: terminology.Names("title_info"),
		Values:   []string{""},
	})
	require.NoError(t, err)
	require.Len(t, res.Inserted, 1)
	assert.Equal(t, "mods", res.Parent.Data)

	_, err = d.TermValuesAppend(AppendParams{
		ParentSelect: terminology.Names("title_info"),
		Template:     terminology.Names("title_info", "main_title"),
		Values:       []string{"Fresh"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Fresh"}, values(t, d, terminology.Names("title")))
	assert.Contains(t, d.XML(), mods.Namespace)
}

func TestWriteTo(t *testing.T) {
	d := loadArticle(t)

	path := filepath.Join(t.TempDir(), "out.xml")
	f, err := os.Create(path)
	require.NoError(t, err)
	n, err := d.WriteTo(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Positive(t, n)

	again, err := Open(path, d.Compiler(), xmltree.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, values(t, d, terminology.Names("person", "last_name")), values(t, again, terminology.Names("person", "last_name")))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	d := loadArticle(t, WithMetrics(m))

	_, _, err = d.TermValues(terminology.Names("person", "first_name"))
	require.NoError(t, err)
	_, _, err = d.TermValues(terminology.Names("bogus"))
	require.NoError(t, err)
	_, err = d.TermValueDelete(DeleteParams{Select: terminology.Names("person", "affiliation")})
	require.NoError(t, err)

	expected := `
# HELP termxml_operations_total Document value operations by operation and outcome.
# TYPE termxml_operations_total counter
termxml_operations_total{op="delete",outcome="ok"} 1
termxml_operations_total{op="term_values",outcome="no_match"} 1
termxml_operations_total{op="term_values",outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "termxml_operations_total"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Collectors()[2]))
}

package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/termxml/terminology"
	"github.com/c360studio/termxml/xmltree"
)

func TestTermValueDelete_Select(t *testing.T) {
	d := loadArticle(t)
	affiliation := terminology.Names("person", "affiliation")

	n, err := d.TermValueDelete(DeleteParams{Select: affiliation})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, values(t, d, affiliation))

	n, err = d.TermValueDelete(DeleteParams{Select: affiliation})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTermValueDelete_SelectRemovesAllMatches(t *testing.T) {
	d := loadArticle(t)

	n, err := d.TermValueDelete(DeleteParams{Select: terminology.Names("person", "role", "text")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"cre"}, values(t, d, terminology.Names("person", "role", "code")))
}

func TestTermValueDelete_Attribute(t *testing.T) {
	d := loadArticle(t)

	href := terminology.Names("journal", "href")

	n, err := d.TermValueDelete(DeleteParams{Select: href})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, values(t, d, href))
	assert.NotContains(t, d.XML(), "example.org/journal")

	n, err = d.TermValueDelete(DeleteParams{Select: href})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTermValueDelete_ChildOfParent(t *testing.T) {
	d := loadArticle(t)
	params := DeleteParams{
		ParentSelect: terminology.Names("title_info"),
		ChildIndex:   Ordinal(1),
	}
	parent := func() *xmltree.Node {
		nodes, ok, err := d.FindByTerm(terminology.Names("title_info"))
		require.NoError(t, err)
		require.True(t, ok)
		return nodes[0]
	}
	require.Len(t, xmltree.Children(parent()), 2)

	n, err := d.TermValueDelete(params)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, xmltree.Children(parent()), 1)
	assert.NotContains(t, d.XML(), "subTitle")

	// Repeating the delete leaves the document as it is.
	before := d.XML()
	n, err = d.TermValueDelete(params)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, before, d.XML())
}

func TestTermValueDelete_RootAsParent(t *testing.T) {
	d := loadArticle(t)

	// A zero parent select on its own is no selection at all.
	_, err := d.TermValueDelete(DeleteParams{ChildIndex: Ordinal(0)})
	assert.ErrorIs(t, err, ErrNoSelection)

	n, err := d.TermValueDelete(DeleteParams{ParentRoot: true, ChildIndex: Ordinal(0)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"fre"}, values(t, d, terminology.Names("title_info", "language")))
	assert.NotContains(t, d.XML(), "Hydrangea Article")
}

func TestTermValueDelete_LastChildOfLastParent(t *testing.T) {
	d := loadArticle(t)

	n, err := d.TermValueDelete(DeleteParams{
		ParentSelect: terminology.Names("person"),
		ParentIndex:  Last,
		ChildIndex:   Last,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"creator"}, values(t, d, terminology.Names("person", "role", "text")))
}

func TestTermValueDelete_NoOps(t *testing.T) {
	d := loadArticle(t)
	before := d.XML()

	cases := map[string]DeleteParams{
		"unresolved select":  {Select: terminology.Names("bogus")},
		"unresolved parent":  {ParentSelect: terminology.Names("person", "bogus")},
		"parent not found":   {ParentSelect: terminology.Names("person"), ParentIndex: Ordinal(5)},
		"child out of range": {ParentSelect: terminology.Names("organization"), ChildIndex: Ordinal(3)},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			n, err := d.TermValueDelete(params)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
	assert.Equal(t, before, d.XML())

	_, err := d.TermValueDelete(DeleteParams{})
	assert.ErrorIs(t, err, ErrNoSelection)
}

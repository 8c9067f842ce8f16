package terminology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Namespaces(t *testing.T) {
	mods := buildMods(t)
	assert.Equal(t, map[string]string{"oxns": modsNamespace}, mods.Namespaces())

	root := mods.RootTerm()
	require.NotNil(t, root)
	assert.Equal(t, "mods", root.Name)
	assert.Equal(t, modsNamespace, root.XMLNS)
	assert.Equal(t, "oxns", root.NamespacePrefix)
	assert.NotEmpty(t, root.Schema)

	plain := buildPlain(t)
	assert.Empty(t, plain.Namespaces())
	assert.Empty(t, mustTerm(t, plain, "title_info").NamespacePrefix)
}

func TestBuild_PrefixOverrides(t *testing.T) {
	terms, err := NewBuilder().
		Namespace("xlink", "http://www.w3.org/1999/xlink").
		Add(
			DefineRoot("mods", WithXMLNS(modsNamespace)),
			Define("link", WithNamespace("xlink")),
			Define("bare", WithoutNamespace()),
		).Build()
	require.NoError(t, err)

	assert.Equal(t, "xlink:link", mustTerm(t, terms, "link").XPathRelative())
	assert.Equal(t, "bare", mustTerm(t, terms, "bare").XPathRelative())
	assert.Equal(t, "oxns:mods", mustTerm(t, terms, "mods").XPathRelative())
	assert.Len(t, terms.Namespaces(), 2)
}

func TestBuild_DefaultPrefixDisabled(t *testing.T) {
	terms, err := NewBuilder().DefaultPrefix("").Add(modsSpecs(modsNamespace)...).Build()
	require.NoError(t, err)
	assert.Equal(t, "//titleInfo/title", mustTerm(t, terms, "title_info", "main_title").XPath())
}

func TestBuild_Refs(t *testing.T) {
	mods := buildMods(t)

	person := mustTerm(t, mods, "person")
	assert.Equal(t, Segment("name"), person.Path)
	assert.Equal(t, Attributes{{Name: "type", Value: "personal"}}, person.Attributes)

	// Children are copied from the referenced term, refs inside them included.
	text := mustTerm(t, mods, "person", "role", "text")
	assert.Equal(t, `//oxns:name[@type="personal"]/oxns:role/oxns:roleTerm[@type="text"]`, text.XPath())
	assert.Equal(t, "person.role.text", text.QualifiedName())

	// The original keeps its own definition.
	assert.Equal(t, "oxns:name", mustTerm(t, mods, "name").XPathRelative())
}

func TestBuild_RefOwnChildrenWin(t *testing.T) {
	terms, err := NewBuilder().Add(
		Define("name", WithChildren(
			Define("namePart"),
			Define("role"),
		)),
		Define("person", WithRef("name"), WithChildren(
			Define("role", WithPath("roleTerm")),
			Define("extra"),
		)),
	).Build()
	require.NoError(t, err)

	assert.Equal(t, "roleTerm", mustTerm(t, terms, "person", "role").XPathRelative())
	assert.True(t, terms.HasTerm("person", "extra"))
	assert.True(t, terms.HasTerm("person", "namePart"))
	assert.False(t, terms.HasTerm("name", "extra"))
}

func TestBuild_Defaults(t *testing.T) {
	mods := buildMods(t)

	affiliation := mustTerm(t, mods, "person", "affiliation")
	assert.Equal(t, "affiliation", affiliation.Label)
	assert.Equal(t, "string", affiliation.DataType)
	assert.Equal(t, "terms of address", mustTerm(t, mods, "name", "terms_of_address").Label)
	assert.Equal(t, "first name", mustTerm(t, mods, "person", "first_name").Label)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		specs []TermSpec
		want  error
	}{
		{
			"attribute with children",
			[]TermSpec{Define("lang", WithAttributePath("lang"), WithChildren(Define("x")))},
			ErrAttributeChildren,
		},
		{
			"duplicate sibling",
			[]TermSpec{Define("name", WithChildren(Define("role"), Define("role")))},
			ErrDuplicateTerm,
		},
		{
			"duplicate top level",
			[]TermSpec{Define("name"), DefineProxy("name", "x")},
			ErrDuplicateTerm,
		},
		{
			"unknown ref",
			[]TermSpec{Define("person", WithRef("missing"))},
			ErrUnknownRef,
		},
		{
			"ref cycle",
			[]TermSpec{Define("a", WithRef("b")), Define("b", WithRef("a"))},
			ErrRefCycle,
		},
		{
			"empty path",
			[]TermSpec{Define("x", WithPath(""))},
			ErrInvalidPath,
		},
		{
			"missing name",
			[]TermSpec{{Path: Segment("x")}},
			ErrInvalidTerm,
		},
		{
			"proxy with children",
			[]TermSpec{{Name: "p", Proxy: []string{"x"}, Children: []TermSpec{Define("y")}}},
			ErrInvalidTerm,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder().Add(tt.specs...).Build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestMustBuild_Panics(t *testing.T) {
	assert.Panics(t, func() {
		NewBuilder().Add(Define("person", WithRef("missing"))).MustBuild()
	})
}

func TestTerminology_Lookup(t *testing.T) {
	mods := buildMods(t)

	e, ok := mods.Lookup("journal.issue.volume")
	require.True(t, ok)
	assert.Equal(t, "volume", e.(*Term).Name)

	_, ok = mods.Lookup("volume")
	assert.False(t, ok)

	// Names repeat at different levels; each qualified name is distinct.
	assert.Contains(t, mods.Names(), "title_info")
	assert.Contains(t, mods.Names(), "journal.title_info")
	assert.Contains(t, mods.Names(), "person.role")
	assert.Contains(t, mods.Names(), "name.role")
}

func TestTerminology_RetrieveTerm(t *testing.T) {
	mods := buildMods(t)

	e, ok := mods.RetrieveTerm("journal", "journal_title")
	require.True(t, ok)
	proxy, ok := e.(*Proxy)
	require.True(t, ok)
	assert.Equal(t, "journal.journal_title", proxy.QualifiedName())
	assert.Equal(t, "journal", proxy.Parent().Name)

	target, ok := proxy.Target()
	require.True(t, ok)
	assert.Equal(t, "journal.title_info.main_title", target.QualifiedName())

	// Walking through a proxy continues from its target.
	_, ok = mods.RetrieveTerm("title", "bogus")
	assert.False(t, ok)

	_, ok = mods.RetrieveTerm()
	assert.False(t, ok)

	child, ok := mustTerm(t, mods, "journal").RetrieveTerm("issue", "volume")
	require.True(t, ok)
	assert.Equal(t, "journal.issue.volume", child.(*Term).QualifiedName())
}

func TestTerminology_Ordering(t *testing.T) {
	mods := buildMods(t)

	var names []string
	for _, e := range mods.TopLevel() {
		switch v := e.(type) {
		case *Term:
			names = append(names, v.Name)
		case *Proxy:
			names = append(names, v.Name)
		}
	}
	assert.Equal(t, []string{"mods", "title_info", "title", "name", "person", "organization", "untyped_name", "role", "journal", "issue"}, names)

	children := mustTerm(t, mods, "role").Children()
	require.Len(t, children, 2)
	assert.Equal(t, "text", children[0].(*Term).Name)
	assert.Equal(t, "code", children[1].(*Term).Name)
	assert.True(t, mustTerm(t, mods, "role").HasChildren())
	assert.False(t, mustTerm(t, mods, "role", "code").HasChildren())
}

func TestShape(t *testing.T) {
	mods := buildMods(t)

	volume := mustTerm(t, mods, "issue", "volume").Shape()
	assert.Equal(t, "oxns:detail", volume.QualifiedName())
	assert.Equal(t, []ShapeAttribute{{Name: "type", Value: "volume"}}, volume.Attributes)
	require.NotNil(t, volume.Content)
	assert.Equal(t, "oxns:number", volume.Content.QualifiedName())

	lang := mustTerm(t, mods, "title_info", "language").Shape()
	assert.True(t, lang.IsAttribute())
	assert.Equal(t, "lang", lang.Attribute)

	untyped := mustTerm(t, mods, "untyped_name").Shape()
	assert.Empty(t, untyped.Attributes)

	e, ok := mods.RetrieveTerm("title")
	require.True(t, ok)
	proxy, ok := ShapeOf(e)
	require.True(t, ok)
	assert.Equal(t, "oxns:titleInfo", proxy.QualifiedName())
	require.NotNil(t, proxy.Content)
	assert.Equal(t, "oxns:title", proxy.Content.QualifiedName())
	assert.Nil(t, proxy.Content.Content)
}

package terminology

import "testing"

const modsNamespace = "http://www.loc.gov/mods/v3"

// modsSpecs declares the terminology used across the package tests. With
// xmlns set on the root, every term gets the oxns prefix.
func modsSpecs(xmlns string) []TermSpec {
	return []TermSpec{
		DefineRoot("mods", WithXMLNS(xmlns), WithSchema("http://www.loc.gov/standards/mods/v3/mods-3-2.xsd")),
		Define("title_info", WithPath("titleInfo"), WithChildren(
			Define("main_title", WithPath("title"), WithLabel("title")),
			Define("language", WithAttributePath("lang")),
		)),
		DefineProxy("title", "title_info", "main_title"),
		Define("name", WithChildren(
			Define("namePart", WithLabel("generic name")),
			Define("affiliation"),
			Define("displayForm"),
			Define("role", WithRef("role")),
			Define("description"),
			Define("date", WithPath("namePart"), WithAttribute("type", "date")),
			Define("last_name", WithPath("namePart"), WithAttribute("type", "family")),
			Define("first_name", WithPath("namePart"), WithAttribute("type", "given"), WithLabel("first name")),
			Define("terms_of_address", WithPath("namePart"), WithAttribute("type", "termsOfAddress")),
		)),
		Define("person", WithRef("name"), WithAttribute("type", "personal")),
		Define("organization", WithRef("name"), WithAttribute("type", "corporate")),
		Define("untyped_name", WithRef("name"), WithoutAttribute("type")),
		Define("role", WithChildren(
			Define("text", WithPath("roleTerm"), WithAttribute("type", "text")),
			Define("code", WithPath("roleTerm"), WithAttribute("type", "code")),
		)),
		Define("journal", WithPath("relatedItem"), WithAttribute("type", "host"), WithChildren(
			Define("title_info", WithRef("title_info")),
			DefineProxy("journal_title", "title_info", "main_title"),
			Define("origin_info", WithPath("originInfo")),
			Define("issn", WithPath("identifier"), WithAttribute("type", "issn")),
			Define("issue", WithRef("issue")),
		)),
		Define("issue", WithPath("part"), WithChildren(
			Define("volume", WithPath("detail"), WithAttribute("type", "volume"), WithDefaultContentPath("number")),
			Define("level", WithPath("detail"), WithAttribute("type", "number"), WithDefaultContentPath("number")),
			Define("start_page", WithPath("pages"), WithAttribute("type", "start")),
			Define("end_page", WithPath("pages"), WithAttribute("type", "end")),
			Define("publication_date", WithPath("date")),
		)),
	}
}

func buildMods(t *testing.T) *Terminology {
	t.Helper()
	terms, err := NewBuilder().Add(modsSpecs(modsNamespace)...).Build()
	if err != nil {
		t.Fatalf("build mods terminology: %v", err)
	}
	return terms
}

// buildPlain builds the same terminology without a namespace, so no term
// carries a prefix.
func buildPlain(t *testing.T) *Terminology {
	t.Helper()
	terms, err := NewBuilder().Add(modsSpecs("")...).Build()
	if err != nil {
		t.Fatalf("build plain terminology: %v", err)
	}
	return terms
}

func mustTerm(t *testing.T, terms *Terminology, names ...string) *Term {
	t.Helper()
	e, ok := terms.RetrieveTerm(names...)
	if !ok {
		t.Fatalf("term %v not found", names)
	}
	term, ok := e.(*Term)
	if !ok {
		t.Fatalf("entry %v is %T, not a term", names, e)
	}
	return term
}

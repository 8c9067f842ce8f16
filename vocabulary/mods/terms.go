package mods

import "github.com/c360studio/termxml/terminology"

// Name is the registry name of the terminology.
const Name = "mods"

// Namespace and schema of MODS version 3 records.
const (
	Namespace      = "http://www.loc.gov/mods/v3"
	SchemaLocation = "http://www.loc.gov/standards/mods/v3/mods-3-2.xsd"
	XLinkNamespace = "http://www.w3.org/1999/xlink"
)

// Top-level terms.
const (
	// Root is the mods document element.
	Root = "mods"

	// TitleInfo groups a title and its language.
	TitleInfo = "title_info"

	// Title is a proxy for title_info.main_title.
	Title = "title"

	// NameTerm is a generic name; Person and Organization narrow it by type.
	NameTerm     = "name"
	Person       = "person"
	Organization = "organization"

	// Role holds role terms in text and code form.
	Role = "role"

	// Journal is the host item of an article.
	Journal = "journal"

	// Issue holds volume, number, pages and date of a journal issue.
	Issue = "issue"
)

// Children of title_info.
const (
	MainTitle = "main_title"
	Language  = "language"
)

// Children of name, person and organization.
const (
	NamePart       = "namePart"
	Affiliation    = "affiliation"
	DisplayForm    = "displayForm"
	Description    = "description"
	Date           = "date"
	LastName       = "last_name"
	FirstName      = "first_name"
	TermsOfAddress = "terms_of_address"
)

// Children of role.
const (
	RoleText = "text"
	RoleCode = "code"
)

// Children of journal.
const (
	JournalTitle = "journal_title"
	OriginInfo   = "origin_info"
	ISSN         = "issn"
	Href         = "href"
)

// Children of issue.
const (
	Volume          = "volume"
	Level           = "level"
	StartPage       = "start_page"
	EndPage         = "end_page"
	PublicationDate = "publication_date"
)

// Specs returns the term declarations of the terminology.
func Specs() []terminology.TermSpec {
	d := terminology.Define
	path := terminology.WithPath
	attr := terminology.WithAttribute

	return []terminology.TermSpec{
		terminology.DefineRoot(Root, terminology.WithXMLNS(Namespace), terminology.WithSchema(SchemaLocation)),
		d(TitleInfo, path("titleInfo"), terminology.WithChildren(
			d(MainTitle, path("title"), terminology.WithLabel("title")),
			d(Language, terminology.WithAttributePath("lang")),
		)),
		terminology.DefineProxy(Title, TitleInfo, MainTitle),
		d(NameTerm, terminology.WithChildren(
			d(NamePart, terminology.WithLabel("generic name")),
			d(Affiliation),
			d(DisplayForm, terminology.WithLabel("display form")),
			d(Role, terminology.WithRef(Role)),
			d(Description),
			d(Date, path("namePart"), attr("type", "date"), terminology.WithDataType("date")),
			d(LastName, path("namePart"), attr("type", "family")),
			d(FirstName, path("namePart"), attr("type", "given"), terminology.WithLabel("first name")),
			d(TermsOfAddress, path("namePart"), attr("type", "termsOfAddress")),
		)),
		d(Person, terminology.WithRef(NameTerm), attr("type", "personal")),
		d(Organization, terminology.WithRef(NameTerm), attr("type", "corporate")),
		d(Role, terminology.WithChildren(
			d(RoleText, path("roleTerm"), attr("type", "text")),
			d(RoleCode, path("roleTerm"), attr("type", "code")),
		)),
		d(Journal, path("relatedItem"), attr("type", "host"), terminology.WithChildren(
			d(TitleInfo, terminology.WithRef(TitleInfo)),
			terminology.DefineProxy(JournalTitle, TitleInfo, MainTitle),
			d(OriginInfo, path("originInfo")),
			d(ISSN, path("identifier"), attr("type", "issn")),
			d(Href, terminology.WithAttributePath("xlink:href"), terminology.WithDataType("uri")),
			d(Issue, terminology.WithRef(Issue)),
		)),
		d(Issue, path("part"), terminology.WithChildren(
			d(Volume, path("detail"), attr("type", "volume"), terminology.WithDefaultContentPath("number")),
			d(Level, path("detail"), attr("type", "number"), terminology.WithDefaultContentPath("number")),
			d(StartPage, path("pages"), attr("type", "start")),
			d(EndPage, path("pages"), attr("type", "end")),
			d(PublicationDate, path("date"), terminology.WithDataType("date")),
		)),
	}
}

// Builder returns a builder holding the MODS terms and namespaces.
func Builder() *terminology.Builder {
	return terminology.NewBuilder().
		Namespace("xlink", XLinkNamespace).
		Add(Specs()...)
}

// Terminology builds the MODS terminology.
func Terminology() (*terminology.Terminology, error) {
	return Builder().Build()
}

func init() {
	terminology.Register(Name, Terminology)
}

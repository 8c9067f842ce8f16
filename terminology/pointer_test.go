package terminology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointer_StringAndFieldKey(t *testing.T) {
	tests := []struct {
		name     string
		pointer  Pointer
		str      string
		fieldKey string
	}{
		{"names", Names("title_info", "main_title"), "title_info.main_title", "title_info_main_title"},
		{"indexed", NewPointer(At("person", 1), Name("first_name")), "person[1].first_name", "person_1_first_name"},
		{
			"constraints",
			Names("person").Where(Contains("first_name", "Tim"), PathContains("oxns:namePart", "2010")),
			`person{first_name="Tim", "oxns:namePart"="2010"}`,
			`person{first_name="Tim", "oxns:namePart"="2010"}`,
		},
		{"raw", Raw("//oxns:name"), "//oxns:name", "//oxns:name"},
		{"zero", Pointer{}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.pointer.String())
			assert.Equal(t, tt.fieldKey, tt.pointer.FieldKey())
		})
	}
}

func TestPointer_FieldKeyKeepsConstraintsApart(t *testing.T) {
	tim := Names("person", "role", "text").Where(Contains("first_name", "Tim"))
	ada := Names("person", "role", "text").Where(Contains("first_name", "Ada"))

	assert.NotEqual(t, tim.FieldKey(), ada.FieldKey())
	assert.Equal(t, `person_role_text{first_name="Ada"}`, ada.FieldKey())
	assert.Equal(t, "person_role_text", Names("person", "role", "text").FieldKey())
}

func TestPointer_Navigation(t *testing.T) {
	p := NewPointer(At("person", 2), At("role", 0), Name("text")).Where(Contains("text", "creator"))

	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []string{"person", "role", "text"}, p.TermNames())
	assert.Equal(t, "person.role.text", p.Template().String())
	assert.Equal(t, "person[2].role[0]", p.Parent().String())
	assert.Empty(t, p.Parent().Constraints())
	assert.True(t, Pointer{}.IsZero())
	assert.True(t, Raw("//x").Parent().IsZero())
	assert.False(t, p.IsRaw())
}

func TestPointer_WhereDoesNotAlias(t *testing.T) {
	base := Names("person")
	a := base.Where(Contains("first_name", "Tim"))
	b := base.Where(Contains("last_name", "Lee"))

	assert.Empty(t, base.Constraints())
	require.Len(t, a.Constraints(), 1)
	require.Len(t, b.Constraints(), 1)
	assert.Equal(t, "first_name", a.Constraints()[0].Term)
	assert.Equal(t, "last_name", b.Constraints()[0].Term)
}

func TestParsePointer(t *testing.T) {
	tests := []struct {
		input string
		want  Pointer
	}{
		{"person[1].first_name", NewPointer(At("person", 1), Name("first_name"))},
		{":person.:role", Names("person", "role")},
		{"title_info", Names("title_info")},
		{
			`person{first_name="Tim", last_name="Berners-Lee"}`,
			Names("person").Where(Contains("first_name", "Tim"), Contains("last_name", "Berners-Lee")),
		},
		{
			`name{"oxns:namePart[@type='date']"=2010}`,
			Names("name").Where(PathContains("oxns:namePart[@type='date']", "2010")),
		},
		{"//oxns:name[1]", Raw("//oxns:name[1]")},
		{"(//oxns:name)[1]", Raw("(//oxns:name)[1]")},
		{"  ", Pointer{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePointer(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want.String(), got.String())
			assert.Equal(t, tt.want.Elements(), got.Elements())
			assert.Equal(t, tt.want.Constraints(), got.Constraints())
			assert.Equal(t, tt.want.IsRaw(), got.IsRaw())
		})
	}
}

func TestParsePointer_RoundTrip(t *testing.T) {
	pointers := []Pointer{
		NewPointer(At("person", 1), Name("first_name")),
		Names("journal", "issue", "volume"),
		NewPointer(At("person", 0)).Where(Contains("date", "2010"), PathContains("oxns:role", `say "hi"`)),
	}
	for _, p := range pointers {
		parsed, err := ParsePointer(p.String())
		require.NoError(t, err, p.String())
		assert.Equal(t, p.String(), parsed.String())
	}
}

func TestParsePointer_Errors(t *testing.T) {
	inputs := []string{
		"person[",
		"person[-1]",
		"person[x]",
		"person..first_name",
		"person{first_name}",
		"person{first_name=\"Tim\"",
		"person{first_name=\"Tim\"}.role",
		"person/role",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePointer(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPointer))
		})
	}
}

func TestPointerFromValues(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   string
	}{
		{"single string is raw", []any{"//oxns:titleInfo"}, "//oxns:titleInfo"},
		{"symbols", []any{":person", ":first_name"}, "person.first_name"},
		{"index map", []any{map[string]any{":person": "0"}, "affiliation"}, "person[0].affiliation"},
		{"float index", []any{map[string]any{"person": 2.0}, "role"}, "person[2].role"},
		{"trailing index map", []any{map[string]any{"person": 1}, map[string]any{"role": 1}}, "person[1].role[1]"},
		{
			"constraint map",
			[]any{"person", map[string]any{"last_name": "Berners-Lee", "first_name": "Tim"}},
			`person{first_name="Tim", last_name="Berners-Lee"}`,
		},
		{
			"literal path constraint",
			[]any{"person", map[string]string{"oxns:namePart": "2010"}},
			`person{"oxns:namePart"="2010"}`,
		},
		{"typed index map", []any{map[string]int{"person": 3}, "role"}, "person[3].role"},
		{"element", []any{At("person", 1), "role"}, "person[1].role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PointerFromValues(tt.values...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPointerFromValues_Errors(t *testing.T) {
	cases := map[string][]any{
		"non numeric index": {map[string]any{"person": "x"}, "role"},
		"negative index":    {map[string]any{"person": -1}, "role"},
		"two entry index":   {map[string]any{"person": 1, "role": 2}, "text"},
		"unsupported type":  {"person", 42},
		"empty name":        {":", "role"},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PointerFromValues(values...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPointer))
		})
	}
}

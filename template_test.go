package smartdocs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportTemplate() Template {
	return Template{
		ID:    "report",
		Title: "Report Generator",
		Fields: []Field{
			{ID: "title", Label: "Report Title", Type: FieldText, Required: true},
			{ID: "author", Label: "Author", Type: FieldText, Required: true},
			{ID: "type", Label: "Report Type", Type: FieldSelect, Options: []string{"Research", "Business"}},
			{ID: "summary", Label: "Executive Summary", Type: FieldTextarea, MaxLength: 300},
		},
	}
}

func TestTemplateCheck(t *testing.T) {
	require.NoError(t, reportTemplate().Check())

	empty := Template{ID: "blank", Title: "Blank"}
	assert.NoError(t, empty.Check(), "zero fields is a valid configuration")

	tests := []struct {
		name string
		tpl  Template
	}{
		{"missing id", Template{Title: "x"}},
		{"missing title", Template{ID: "x"}},
		{"select without options", Template{ID: "x", Title: "x", Fields: []Field{
			{ID: "a", Label: "A", Type: FieldSelect},
		}}},
		{"duplicate field ids", Template{ID: "x", Title: "x", Fields: []Field{
			{ID: "a", Label: "A", Type: FieldText},
			{ID: "a", Label: "B", Type: FieldText},
		}}},
		{"field without label", Template{ID: "x", Title: "x", Fields: []Field{
			{ID: "a", Type: FieldText},
		}}},
		{"negative max length", Template{ID: "x", Title: "x", Fields: []Field{
			{ID: "a", Label: "A", Type: FieldText, MaxLength: -1},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.tpl.Check())
		})
	}
}

func TestFieldTypeKnown(t *testing.T) {
	for _, ft := range FieldTypes {
		assert.True(t, ft.Known(), ft)
	}
	assert.False(t, FieldType("color").Known())
}

func TestTemplateField(t *testing.T) {
	tpl := reportTemplate()
	f, ok := tpl.Field("type")
	require.True(t, ok)
	assert.Equal(t, FieldSelect, f.Type)

	_, ok = tpl.Field("nope")
	assert.False(t, ok)
}

func TestValidateReportsEveryMissingField(t *testing.T) {
	tpl := reportTemplate()
	data := NewDocumentData(map[string]Value{"author": Text("   ")})

	err := Validate(tpl, data)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "report", verr.TemplateID)
	assert.Equal(t, []MissingField{
		{ID: "title", Label: "Report Title"},
		{ID: "author", Label: "Author"},
	}, verr.Missing)
	assert.True(t, verr.Has("author"))
	assert.False(t, verr.Has("summary"))
	assert.Contains(t, err.Error(), "Report Title, Author")

	data.Set("title", Text("Q3"))
	data.Set("author", Text("Ann"))
	assert.NoError(t, Validate(tpl, data))
}

func TestValidateAcceptsNumbersAndFiles(t *testing.T) {
	tpl := Template{ID: "t", Title: "T", Fields: []Field{
		{ID: "n", Label: "N", Type: FieldNumber, Required: true},
		{ID: "f", Label: "F", Type: FieldFile, Required: true},
	}}
	data := NewDocumentData(map[string]Value{
		"n": Number(0),
		"f": File(NewMemFile("a.pdf", "", []byte("%PDF"))),
	})
	assert.NoError(t, Validate(tpl, data))

	data.Set("n", Null())
	assert.Error(t, Validate(tpl, data))
}

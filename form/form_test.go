package form

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

func coverLetter() smartdocs.Template {
	return smartdocs.Template{
		ID:    "coverLetter",
		Title: "Cover Letter Generator",
		Fields: []smartdocs.Field{
			{ID: "name", Label: "Your Name", Type: smartdocs.FieldText, Required: true},
			{ID: "experience", Label: "Experience Level", Type: smartdocs.FieldSelect,
				Options: []string{"Entry Level", "Mid Level", "Senior Level"}},
			{ID: "motivation", Label: "Why This Company?", Type: smartdocs.FieldTextarea, MaxLength: 10},
			{ID: "years", Label: "Years", Type: smartdocs.FieldNumber},
			{ID: "start", Label: "Start Date", Type: smartdocs.FieldDate},
			{ID: "resume", Label: "Resume", Type: smartdocs.FieldFile},
			{ID: "color", Label: "Favourite Colour", Type: "color"},
		},
	}
}

func TestForMapsEveryType(t *testing.T) {
	tests := []struct {
		typ  smartdocs.FieldType
		want Control
	}{
		{smartdocs.FieldText, TextControl{}},
		{smartdocs.FieldTextarea, TextareaControl{}},
		{smartdocs.FieldSelect, SelectControl{}},
		{smartdocs.FieldNumber, NumberControl{}},
		{smartdocs.FieldDate, DateControl{}},
		{smartdocs.FieldFile, FileControl{}},
		{"unknown", TextControl{}},
		{"", TextControl{}},
	}
	for _, tt := range tests {
		got := For(smartdocs.Field{ID: "f", Type: tt.typ})
		assert.IsType(t, tt.want, got, string(tt.typ))
		assert.Equal(t, "f", got.Field().ID)
	}
}

func TestUnknownTypeRendersAsText(t *testing.T) {
	views := Render(coverLetter(), smartdocs.DocumentData{})
	last := views[len(views)-1]
	assert.Equal(t, WidgetInput, last.Widget)
	assert.Equal(t, "text", last.InputType)
}

func TestRenderOrderAndIdempotence(t *testing.T) {
	tpl := coverLetter()
	data := smartdocs.NewDocumentData(map[string]smartdocs.Value{
		"name":       smartdocs.Text("Ann"),
		"motivation": smartdocs.Text("growth"),
	})

	first := Render(tpl, data)
	second := Render(tpl, data)
	require.Len(t, first, len(tpl.Fields))
	assert.Equal(t, first, second)
	for i, f := range tpl.Fields {
		assert.Equal(t, f.ID, first[i].FieldID)
	}
	assert.Equal(t, "6/10 characters", first[2].Counter)
}

func TestSelectContainment(t *testing.T) {
	tpl := coverLetter()
	var data smartdocs.DocumentData

	_, err := Apply(tpl, &data, "experience", TextInput("Mid Level"))
	require.NoError(t, err)
	assert.Equal(t, "Mid Level", data.Lookup("experience").String())

	_, err = Apply(tpl, &data, "experience", TextInput("CEO"))
	assert.True(t, errors.Is(err, smartdocs.ErrOptionNotAllowed))
	assert.Equal(t, "Mid Level", data.Lookup("experience").String(), "rejected input must not be stored")

	view, err := Apply(tpl, &data, "experience", TextInput(""))
	require.NoError(t, err)
	assert.Equal(t, "", data.Lookup("experience").String())
	require.Len(t, view.Options, 4)
	assert.Equal(t, Option{Value: "", Label: "Select Experience Level", Selected: true}, view.Options[0])
}

func TestSelectContainmentProperty(t *testing.T) {
	f := coverLetter().Fields[1]
	c := For(f)
	inputs := []string{"", "Entry Level", "entry level", " Senior Level", "Senior Level", "x", "Select Experience Level"}
	for _, in := range inputs {
		u, err := c.Apply(TextInput(in))
		if err != nil {
			continue
		}
		got := u.Value.String()
		assert.True(t, got == "" || contains(f.Options, got), "stored %q", got)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestTextareaTruncatesToMaxLength(t *testing.T) {
	c := For(coverLetter().Fields[2])
	u, err := c.Apply(TextInput("ééééééééééééé"))
	require.NoError(t, err)
	assert.Equal(t, "éééééééééé", u.Value.String())
	assert.Equal(t, "10/10 characters", c.View(u.Value).Counter)
}

func TestNumberCoercion(t *testing.T) {
	c := For(coverLetter().Fields[3])
	tests := []struct {
		in   string
		kind smartdocs.ValueKind
		want string
	}{
		{"42", smartdocs.KindNumber, "42"},
		{" 3.5 ", smartdocs.KindNumber, "3.5"},
		{"", smartdocs.KindNull, ""},
		{"abc", smartdocs.KindNull, ""},
		{"NaN", smartdocs.KindNull, ""},
		{"1e400", smartdocs.KindNull, ""},
	}
	for _, tt := range tests {
		u, err := c.Apply(TextInput(tt.in))
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.kind, u.Value.Kind(), tt.in)
		assert.Equal(t, tt.want, u.Value.String(), tt.in)
	}
}

func TestDateControl(t *testing.T) {
	c := For(coverLetter().Fields[4])

	u, err := c.Apply(TextInput("2024-02-29"))
	require.NoError(t, err)
	assert.Equal(t, smartdocs.KindText, u.Value.Kind())
	assert.Equal(t, "2024-02-29", u.Value.String())
	assert.Equal(t, "date", c.View(u.Value).InputType)

	for _, bad := range []string{"2023-02-29", "15/01/2024", "2024-1-5"} {
		_, err := c.Apply(TextInput(bad))
		assert.True(t, errors.Is(err, smartdocs.ErrInvalidDate), bad)
	}

	u, err = c.Apply(TextInput(""))
	require.NoError(t, err)
	assert.True(t, u.Value.IsEmpty())
}

func TestFileControl(t *testing.T) {
	c := For(coverLetter().Fields[5])

	pdf := smartdocs.NewMemFile("cv.pdf", "", []byte("%PDF"))
	u, err := c.Apply(FileInput(pdf))
	require.NoError(t, err)
	assert.Equal(t, smartdocs.KindFile, u.Value.Kind())
	assert.Equal(t, "cv.pdf", c.View(u.Value).Value)
	assert.Equal(t, Accept, c.View(u.Value).Accept)

	img := smartdocs.NewMemFile("scan", "image/jpeg", nil)
	_, err = c.Apply(FileInput(img))
	assert.NoError(t, err)

	exe := smartdocs.NewMemFile("setup.exe", "application/octet-stream", nil)
	_, err = c.Apply(FileInput(exe))
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFile))

	u, err = c.Apply(FileInput(nil))
	require.NoError(t, err)
	assert.Equal(t, smartdocs.KindNull, u.Value.Kind())
}

func TestApplyUnknownField(t *testing.T) {
	var data smartdocs.DocumentData
	_, err := Apply(coverLetter(), &data, "missing", TextInput("x"))
	assert.True(t, errors.Is(err, smartdocs.ErrUnknownField))
	assert.Equal(t, 0, data.Len())
}

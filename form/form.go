package form

import (
	"fmt"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

// Render returns one view per template field, in declared order.
func Render(tpl smartdocs.Template, data smartdocs.DocumentData) []View {
	views := make([]View, len(tpl.Fields))
	for i, f := range tpl.Fields {
		views[i] = For(f).View(data.Lookup(f.ID))
	}
	return views
}

// Apply runs input through the control for fieldID and merges the resulting
// update into data. data is left untouched when the control rejects input.
func Apply(tpl smartdocs.Template, data *smartdocs.DocumentData, fieldID string, in Input) (View, error) {
	f, ok := tpl.Field(fieldID)
	if !ok {
		return View{}, fmt.Errorf("form: %w: %q in template %q", smartdocs.ErrUnknownField, fieldID, tpl.ID)
	}
	c := For(f)
	u, err := c.Apply(in)
	if err != nil {
		return View{}, err
	}
	data.Set(u.FieldID, u.Value)
	return c.View(u.Value), nil
}

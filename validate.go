package smartdocs

// Validate checks that every required field of tpl has a non-empty value in
// data. Text values are trimmed before the check. All missing fields are
// reported together in a *ValidationError.
func Validate(tpl Template, data DocumentData) error {
	var missing []MissingField
	for _, f := range tpl.Fields {
		if !f.Required {
			continue
		}
		if data.Lookup(f.ID).IsEmpty() {
			missing = append(missing, MissingField{ID: f.ID, Label: f.Label})
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{TemplateID: tpl.ID, Missing: missing}
}

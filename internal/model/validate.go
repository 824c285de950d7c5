package model

// Validate checks the fields a caller must supply before an entry is saved.
// The store itself accepts whatever it is given.
func (e MoodEntry) Validate() error {
	if e.Timestamp.IsZero() {
		return Validationf("timestamp is required")
	}
	if !e.Mood.Valid() {
		return Validationf("unknown mood %q", e.Mood)
	}
	if e.Intensity < 1 || e.Intensity > 10 {
		return Validationf("intensity must be between 1 and 10, got %d", e.Intensity)
	}
	for _, a := range e.Activities {
		if a == "" {
			return Validationf("activities must not contain empty labels")
		}
	}
	if len(e.Notes) > 2000 {
		return Validationf("notes exceed 2000 characters")
	}
	return nil
}

// Validate checks an interaction record.
func (i Interaction) Validate() error {
	if i.Component == "" {
		return Validationf("componentName is required")
	}
	if len(i.Feedback) > 2000 {
		return Validationf("feedback exceeds 2000 characters")
	}
	return nil
}

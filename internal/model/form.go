package model

// FieldOption is a select/radio/checkbox choice with a resolved label.
type FieldOption struct {
	Value string
	Label string
}

// FieldValidation holds per-field constraints. ErrorMessage stays
// localized so it can be resolved against the submitter's locale.
type FieldValidation struct {
	Min          *float64
	Max          *float64
	ErrorMessage LocalizedText
}

// FormField is a contact form field with labels resolved for the locale
// the form was fetched with.
type FormField struct {
	ID           string
	Name         string
	Type         string
	Label        string
	Placeholder  string
	HelpText     string
	Required     bool
	Validation   FieldValidation
	Options      []FieldOption
	DefaultValue string
	Order        int
	Width        string
	ClassName    string
}

// FormSettings controls submission behavior. SuccessMessage stays
// localized so the confirmation can follow the submitter's locale.
type FormSettings struct {
	SubmitButtonText string
	SuccessMessage   LocalizedText
	EnableHoneypot   bool
}

// Form is the contact form definition shaped for rendering.
type Form struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Fields      []FormField
	Settings    FormSettings
}

// Submission is the outcome of validating a form post. Values holds the
// raw inputs for re-rendering, Data holds the typed payload sent
// upstream, and Errors maps field names to messages.
type Submission struct {
	Errors map[string]string
	Values map[string]any
	Data   map[string]any
}

// Valid reports whether validation produced no errors.
func (s Submission) Valid() bool { return len(s.Errors) == 0 }

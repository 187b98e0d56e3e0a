package parlance

import "net/url"

const (
	// FieldMessage is the form field that holds the text to translate.
	FieldMessage = "message"

	// FieldLanguage is the form field that holds the target language.
	FieldLanguage = "language-select"
)

// FormInput is the raw input of a submitted form, keyed by field name. Values
// are whatever the form delivered; the [Controller] validates them.
type FormInput map[string]any

// FormValues returns the form input for the first value of each field in vals.
// Fields that are absent from vals are absent from the returned input.
func FormValues(vals url.Values) FormInput {
	in := make(FormInput, len(vals))
	for k, v := range vals {
		if len(v) > 0 {
			in[k] = v[0]
		}
	}
	return in
}

// FormFields are the values displayed in the form's input controls.
type FormFields struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// IsZero reports whether both fields are empty.
func (f FormFields) IsZero() bool {
	return f.Message == "" && f.Language == ""
}

func (in FormInput) message() (string, bool) {
	msg, ok := in[FieldMessage].(string)
	return msg, ok
}

func (in FormInput) language() string {
	lang, _ := in[FieldLanguage].(string)
	return lang
}

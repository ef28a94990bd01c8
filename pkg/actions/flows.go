package actions

// Field pairs a form field selector with the text to fill into it
type Field struct {
	Selector string `json:"selector" yaml:"selector"`
	Text     string `json:"text" yaml:"text"`
}

// LoginFlow records a generic login: open the page, fill the credentials
// and submit
func LoginFlow(url, userSelector, passSelector, submitSelector, username, password string) *Session {
	r := NewRecorder()
	page := r.OpenPage(url)

	r.Record(ActionInContext{
		PageAlias: page,
		Action:    Fill{Selector: userSelector, Text: username},
	})
	r.Record(ActionInContext{
		PageAlias: page,
		Action:    Fill{Selector: passSelector, Text: password},
	})
	r.Record(ActionInContext{
		PageAlias: page,
		Action:    Click{Selector: submitSelector},
	})

	return r.Session("Login")
}

// FormFillFlow records opening a page and filling a list of fields in
// order
func FormFillFlow(url string, fields []Field) *Session {
	r := NewRecorder()
	page := r.OpenPage(url)

	for _, field := range fields {
		r.Record(ActionInContext{
			PageAlias: page,
			Action:    Fill{Selector: field.Selector, Text: field.Text},
		})
	}

	return r.Session("Form Fill")
}

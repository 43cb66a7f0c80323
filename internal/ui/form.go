package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/agenda/internal/models"
)

var fieldLabels = map[string]string{
	models.FieldName:    "Name",
	models.FieldPhone:   "Phone",
	models.FieldEmail:   "Email",
	models.FieldAddress: "Address",
	models.FieldNotes:   "Notes",
}

var fieldPlaceholders = map[string]string{
	models.FieldName:    "Ana Lopez",
	models.FieldPhone:   "555-1234",
	models.FieldEmail:   "ana@example.com",
	models.FieldAddress: "optional",
	models.FieldNotes:   "optional",
}

// form is the editable record: one text input per field in [models.Fields] order,
// plus the messages from the last rejected save.
type form struct {
	inputs []textinput.Model
	focus  int
	errors models.ValidationErrors
}

func newForm() form {
	f := form{inputs: make([]textinput.Model, len(models.Fields))}
	for i, field := range models.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fieldPlaceholders[field]
		in.CharLimit = 256
		in.Width = 32
		in.Cursor.SetMode(cursor.CursorStatic)
		f.inputs[i] = in
	}
	return f
}

// input gathers the current field values.
func (f *form) input() models.ContactInput {
	var in models.ContactInput
	for i, field := range models.Fields {
		in.Set(field, f.inputs[i].Value())
	}
	return in
}

// load fills every field from c and clears previous errors.
func (f *form) load(c *models.Contact) {
	in := c.Input()
	for i, field := range models.Fields {
		f.inputs[i].SetValue(in.Get(field))
		f.inputs[i].CursorEnd()
	}
	f.errors = nil
}

// clear empties every field and error and moves focus to the first field.
func (f *form) clear() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.errors = nil
	f.setFocus(0)
}

func (f *form) setFocus(i int) {
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *form) blur() {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
}

func (f *form) next() { f.setFocus(f.focus + 1) }
func (f *form) prev() { f.setFocus(f.focus - 1) }

// focusFirstError moves focus to the first field named in the current errors.
func (f *form) focusFirstError() {
	for i, field := range models.Fields {
		if f.errors.For(field) != "" {
			f.setFocus(i)
			return
		}
	}
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) view(focused bool) string {
	var b strings.Builder
	for i, field := range models.Fields {
		label := fieldLabels[field]
		if focused && i == f.focus {
			b.WriteString(styles.title.MarginBottom(0).Render("> " + label))
		} else {
			b.WriteString(styles.help.Render("  " + label))
		}
		b.WriteString("\n  ")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
		if msg := f.errors.For(field); msg != "" {
			b.WriteString(styles.err.Render("  ! " + msg))
			b.WriteString("\n")
		}
	}
	return b.String()
}

package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/agenda/internal/formatter"
	"github.com/desertthunder/agenda/internal/models"
	"github.com/desertthunder/agenda/internal/shared"
)

// ContactManager is the subset of [services.ContactService] the TUI drives.
type ContactManager interface {
	Save(selected int64, in models.ContactInput) (int64, error)
	Get(id int64) (*models.Contact, error)
	Delete(id int64) error
	Search(query string) ([]*models.Contact, error)
	ImportFile(path string) (int, error)
	ExportFile(path string, format formatter.Format) (int, error)
}

// Pane is the half of the screen that receives key presses.
type Pane int

const (
	ListPane Pane = iota
	FormPane
)

// PromptKind identifies what an open prompt line will do on enter.
type PromptKind int

const (
	NoPrompt PromptKind = iota
	SearchPrompt
	ImportPrompt
	ExportCSVPrompt
	ExportVCardPrompt
)

var promptLabels = map[PromptKind]string{
	SearchPrompt:      "Search: ",
	ImportPrompt:      "Import CSV from: ",
	ExportCSVPrompt:   "Export CSV to: ",
	ExportVCardPrompt: "Export vCard to: ",
}

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
)

// Model represents the TUI application state.
type Model struct {
	contacts  ContactManager
	exportDir string
	pane      Pane
	list      list.Model
	form      form
	prompt    textinput.Model
	prompting PromptKind
	selected  int64
	query     string
	status    string
	level     statusLevel
	width     int
	height    int
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model. Default import and export paths live in exportDir.
func NewModel(contacts ContactManager, exportDir string) *Model {
	if exportDir == "" {
		exportDir = "."
	}

	prompt := textinput.New()
	prompt.CharLimit = 512
	prompt.Cursor.SetMode(cursor.CursorStatic)

	return &Model{
		contacts:  contacts,
		exportDir: exportDir,
		pane:      ListPane,
		list:      newContactList(),
		form:      newForm(),
		prompt:    prompt,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Selected returns the ID of the contact loaded in the form, or 0 for a new contact.
func (m *Model) Selected() int64 { return m.selected }

// Status returns the current status line text.
func (m *Model) Status() string { return m.status }

// Init loads the contact list.
func (m *Model) Init() tea.Cmd {
	return m.loadContacts()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.listWidth(), max(msg.Height-8, 4))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.prompting != NoPrompt {
			return m.handlePromptKeys(msg)
		}
		if m.pane == FormPane {
			return m.handleFormKeys(msg)
		}
		return m.handleListKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgContactsLoaded:
		data := msg.data.(contactsLoaded)
		if data.err != nil {
			m.setError(data.err)
			return m, nil
		}
		return m, m.list.SetItems(contactItems(data.contacts))

	case MsgContactLoaded:
		data := msg.data.(contactLoaded)
		if data.err != nil {
			m.setError(data.err)
			return m, m.loadContacts()
		}
		m.form.load(data.contact)
		m.selected = data.contact.ID
		m.focusForm()
		m.setStatus(fmt.Sprintf("Editing contact #%d", data.contact.ID))
		return m, nil

	case MsgContactSaved:
		data := msg.data.(contactSaved)
		if data.err != nil {
			var verrs models.ValidationErrors
			if errors.As(data.err, &verrs) {
				m.form.errors = verrs
				m.form.focusFirstError()
				m.setError(fmt.Errorf("contact not saved: %d field(s) need fixing", len(verrs)))
				return m, nil
			}
			m.setError(data.err)
			if errors.Is(data.err, shared.ErrContactNotFound) {
				m.selected = 0
				return m, m.loadContacts()
			}
			return m, nil
		}
		m.form.clear()
		m.selected = 0
		if data.created {
			m.setStatus(fmt.Sprintf("Saved contact #%d", data.id))
		} else {
			m.setStatus(fmt.Sprintf("Updated contact #%d", data.id))
		}
		return m, m.loadContacts()

	case MsgContactDeleted:
		data := msg.data.(contactDeleted)
		if data.err != nil {
			m.setError(data.err)
			return m, m.loadContacts()
		}
		if data.id == m.selected {
			m.form.clear()
			m.selected = 0
			m.focusList()
		}
		m.setStatus(fmt.Sprintf("Deleted contact #%d", data.id))
		return m, m.loadContacts()

	case MsgImported:
		data := msg.data.(transferred)
		if data.err != nil {
			m.setError(fmt.Errorf("import failed: %w", data.err))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Imported %d contact(s) from %s", data.count, data.path))
		return m, m.loadContacts()

	case MsgExported:
		data := msg.data.(transferred)
		if data.err != nil {
			m.setError(fmt.Errorf("export failed: %w", data.err))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Exported %d contact(s) to %s", data.count, data.path))
		return m, nil
	}

	return m, nil
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if c := m.highlighted(); c != nil {
			return m, m.loadContact(c.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.add):
		m.newContact()
		return m, nil
	case key.Matches(msg, m.keys.remove):
		c := m.highlighted()
		if c == nil {
			m.setWarning("No contact selected")
			return m, nil
		}
		return m, m.deleteContact(c.ID)
	case key.Matches(msg, m.keys.search):
		m.openPrompt(SearchPrompt, m.query)
		return m, nil
	case key.Matches(msg, m.keys.importCSV):
		m.openPrompt(ImportPrompt, filepath.Join(m.exportDir, "contacts.csv"))
		return m, nil
	case key.Matches(msg, m.keys.exportCSV):
		m.openPrompt(ExportCSVPrompt, filepath.Join(m.exportDir, "contacts.csv"))
		return m, nil
	case key.Matches(msg, m.keys.exportCard):
		m.openPrompt(ExportVCardPrompt, filepath.Join(m.exportDir, "contacts.vcf"))
		return m, nil
	case key.Matches(msg, m.keys.switchPane):
		m.focusForm()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.focusList()
		return m, nil
	case key.Matches(msg, m.keys.save):
		return m, m.saveContact(m.selected, m.form.input())
	case key.Matches(msg, m.keys.formAdd):
		m.newContact()
		return m, nil
	case key.Matches(msg, m.keys.formRemove):
		if m.selected == 0 {
			m.setWarning("No contact selected")
			return m, nil
		}
		return m, m.deleteContact(m.selected)
	case key.Matches(msg, m.keys.prev):
		m.form.prev()
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.form.next()
		return m, nil
	}

	return m, m.form.update(msg)
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		kind := m.closePrompt()
		if kind == SearchPrompt && m.query != "" {
			m.setQuery("")
			m.setStatus("Search cleared")
			return m, m.loadContacts()
		}
		return m, nil

	case key.Matches(msg, m.keys.submit):
		value := strings.TrimSpace(m.prompt.Value())
		switch kind := m.closePrompt(); kind {
		case SearchPrompt:
			m.setQuery(value)
			if value == "" {
				m.setStatus("Search cleared")
			} else {
				m.setStatus(fmt.Sprintf("Showing matches for %q", value))
			}
			return m, m.loadContacts()
		case ImportPrompt:
			return m, m.importFile(value)
		case ExportCSVPrompt:
			return m, m.exportFile(value, formatter.FormatCSV)
		case ExportVCardPrompt:
			return m, m.exportFile(value, formatter.FormatVCard)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) setQuery(q string) {
	m.query = q
	if q == "" {
		m.list.Title = "Contacts"
	} else {
		m.list.Title = fmt.Sprintf("Contacts matching %q", q)
	}
}

func (m *Model) highlighted() *models.Contact {
	if item, ok := m.list.SelectedItem().(contactItem); ok {
		return item.contact
	}
	return nil
}

func (m *Model) newContact() {
	m.form.clear()
	m.selected = 0
	m.focusForm()
	m.setStatus("New contact")
}

func (m *Model) focusForm() {
	m.pane = FormPane
	m.form.setFocus(m.form.focus)
}

func (m *Model) focusList() {
	m.pane = ListPane
	m.form.blur()
}

func (m *Model) openPrompt(kind PromptKind, value string) {
	m.prompting = kind
	m.prompt.Prompt = promptLabels[kind]
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.prompt.Focus()
}

func (m *Model) closePrompt() PromptKind {
	kind := m.prompting
	m.prompting = NoPrompt
	m.prompt.Blur()
	m.prompt.Reset()
	return kind
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.level = statusInfo
}

func (m *Model) setWarning(s string) {
	m.status = s
	m.level = statusWarn
}

// setError shows err in the status line, naming the sentinel kinds the user can act on.
func (m *Model) setError(err error) {
	m.level = statusError
	switch {
	case errors.Is(err, shared.ErrContactNotFound):
		m.status = "Contact no longer exists: " + err.Error()
	case errors.Is(err, shared.ErrStorage):
		m.status = "Storage error: " + err.Error()
	default:
		m.status = err.Error()
	}
}

func (m *Model) loadContacts() tea.Cmd {
	query := m.query
	return func() tea.Msg {
		contacts, err := m.contacts.Search(query)
		return contactsLoadedMsg(contacts, err)
	}
}

func (m *Model) loadContact(id int64) tea.Cmd {
	return func() tea.Msg {
		contact, err := m.contacts.Get(id)
		return contactLoadedMsg(contact, err)
	}
}

func (m *Model) saveContact(selected int64, in models.ContactInput) tea.Cmd {
	return func() tea.Msg {
		id, err := m.contacts.Save(selected, in)
		return contactSavedMsg(id, selected == 0, err)
	}
}

func (m *Model) deleteContact(id int64) tea.Cmd {
	return func() tea.Msg {
		return contactDeletedMsg(id, m.contacts.Delete(id))
	}
}

func (m *Model) importFile(path string) tea.Cmd {
	return func() tea.Msg {
		n, err := m.contacts.ImportFile(path)
		return importedMsg(path, n, err)
	}
}

func (m *Model) exportFile(path string, format formatter.Format) tea.Cmd {
	return func() tea.Msg {
		n, err := m.contacts.ExportFile(path, format)
		return exportedMsg(path, format, n, err)
	}
}

func (m *Model) listWidth() int {
	if m.width == 0 {
		return 40
	}
	return max(m.width/2-4, 20)
}

// View renders the list and form side by side, then the prompt, status line and help.
func (m *Model) View() string {
	listPane, formPane := styles.pane, styles.pane
	if m.pane == ListPane {
		listPane = styles.active
	} else {
		formPane = styles.active
	}

	formTitle := "New contact"
	if m.selected != 0 {
		formTitle = fmt.Sprintf("Editing contact #%d", m.selected)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		listPane.Render(m.list.View()),
		formPane.Render(styles.title.Render(formTitle)+"\n"+m.form.view(m.pane == FormPane)),
	)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")

	if m.prompting != NoPrompt {
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
	}

	switch m.level {
	case statusError:
		b.WriteString(styles.err.Render(m.status))
	case statusWarn:
		b.WriteString(styles.warn.Render(m.status))
	default:
		b.WriteString(styles.ok.Render(m.status))
	}
	b.WriteString("\n")

	var bindings []key.Binding
	switch {
	case m.prompting != NoPrompt:
		bindings = m.keys.promptHelp()
	case m.pane == FormPane:
		bindings = m.keys.formHelp()
	default:
		bindings = m.keys.listHelp()
	}
	b.WriteString(m.help.ShortHelpView(bindings))

	return b.String()
}

package ui

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/desertthunder/agenda/internal/formatter"
	"github.com/desertthunder/agenda/internal/models"
	"github.com/desertthunder/agenda/internal/repositories"
	"github.com/desertthunder/agenda/internal/services"
	"github.com/desertthunder/agenda/internal/shared"
	th "github.com/desertthunder/agenda/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *services.ContactService {
	t.Helper()

	db, err := shared.OpenStore(shared.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return services.NewContactService(repositories.NewContactRepository(db), nil)
}

func seed(t *testing.T, svc *services.ContactService, names ...string) {
	t.Helper()
	for i, name := range names {
		_, err := svc.Save(0, models.ContactInput{
			Name:  name,
			Phone: fmt.Sprintf("555-000%d", i),
			Email: strings.ToLower(strings.Fields(name)[0]) + "@example.com",
		})
		require.NoError(t, err)
	}
}

// drain runs cmd and feeds every resulting [Msg] back into m until no commands remain.
func drain(m *Model, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case Msg:
			_, c := m.Update(msg)
			queue = append(queue, c)
		}
	}
}

func press(m *Model, keys ...tea.KeyMsg) {
	for _, k := range keys {
		_, cmd := m.Update(k)
		drain(m, cmd)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		press(m, runes(string(r)))
	}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyDel   = tea.KeyMsg{Type: tea.KeyCtrlD}
)

func newTestModel(t *testing.T, svc *services.ContactService) *Model {
	t.Helper()
	m := NewModel(svc, t.TempDir())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	drain(m, m.Init())
	return m
}

func fillForm(m *Model, in models.ContactInput) {
	for _, field := range models.Fields {
		typeText(m, in.Get(field))
		press(m, keyTab)
	}
}

func TestModel_Init_LoadsContacts(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc, "Ana Lopez", "Bo Chen")

	m := newTestModel(t, svc)

	assert.Len(t, m.list.Items(), 2)
	assert.Equal(t, ListPane, m.pane)
	assert.Contains(t, m.View(), "Ana Lopez")
	assert.Contains(t, m.View(), "Bo Chen")
	assert.Contains(t, m.View(), "↑↓ move")
	assert.Contains(t, m.View(), "q quit")
}

func TestModel_Create(t *testing.T) {
	t.Run("valid input is saved and the form clears", func(t *testing.T) {
		svc := newTestService(t)
		m := newTestModel(t, svc)

		press(m, runes("n"))
		assert.Equal(t, FormPane, m.pane)

		fillForm(m, models.ContactInput{Name: "Ana Lopez", Phone: "555-1234", Email: "ana@example.com"})
		press(m, keySave)

		assert.Equal(t, "Saved contact #1", m.Status())
		assert.Zero(t, m.Selected())
		assert.Empty(t, m.form.input().Name)
		assert.Len(t, m.list.Items(), 1)

		got, err := svc.Get(1)
		require.NoError(t, err)
		assert.Equal(t, "Ana Lopez", got.Name)
	})

	t.Run("invalid input shows field errors and stores nothing", func(t *testing.T) {
		svc := newTestService(t)
		m := newTestModel(t, svc)

		press(m, runes("n"))
		fillForm(m, models.ContactInput{Name: "", Phone: "1", Email: "x"})
		press(m, keySave)

		assert.Equal(t, statusError, m.level)
		assert.NotEmpty(t, m.form.errors.For(models.FieldName))
		assert.NotEmpty(t, m.form.errors.For(models.FieldEmail))
		assert.Empty(t, m.form.errors.For(models.FieldPhone))
		assert.Equal(t, 0, m.form.focus, "focus moves to the first bad field")

		view := m.View()
		assert.Contains(t, view, "must not be empty")
		assert.Contains(t, view, "must look like name@example.com")

		contacts, err := svc.List()
		require.NoError(t, err)
		assert.Empty(t, contacts)
		assert.Equal(t, "x", m.form.input().Email, "rejected values stay in the form")
	})
}

func TestModel_SelectAndUpdate(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc, "Ana Lopez", "Bo Chen")
	m := newTestModel(t, svc)

	press(m, keyDown, keyEnter)
	require.Equal(t, int64(2), m.Selected())
	assert.Equal(t, FormPane, m.pane)
	assert.Equal(t, "Bo Chen", m.form.input().Name)
	assert.Contains(t, m.View(), "Editing contact #2")

	m.form.setFocus(4)
	typeText(m, "tennis")
	press(m, keySave)

	assert.Equal(t, "Updated contact #2", m.Status())
	assert.Zero(t, m.Selected())

	got, err := svc.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "tennis", got.Notes)
	assert.Equal(t, "Bo Chen", got.Name)
}

func TestModel_UpdateDeletedContact(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc, "Ana Lopez", "Bo Chen")
	m := newTestModel(t, svc)

	press(m, keyDown, keyEnter)
	require.Equal(t, int64(2), m.Selected())
	require.NoError(t, svc.Delete(2))

	press(m, keySave)
	assert.Equal(t, statusError, m.level)
	assert.Contains(t, m.Status(), "no longer exists")
	assert.Zero(t, m.Selected())
	assert.Len(t, m.list.Items(), 1, "list is refreshed")
	assert.Equal(t, "Bo Chen", m.form.input().Name, "edits are kept")

	press(m, keySave)
	assert.Equal(t, "Saved contact #3", m.Status())
}

func TestModel_New_ClearsSelection(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc, "Ana Lopez")
	m := newTestModel(t, svc)

	press(m, keyEnter)
	require.Equal(t, int64(1), m.Selected())

	press(m, keyEsc, runes("n"))
	assert.Zero(t, m.Selected())
	assert.Equal(t, models.ContactInput{}, m.form.input())
}

func TestModel_Delete(t *testing.T) {
	t.Run("from the list", func(t *testing.T) {
		svc := newTestService(t)
		seed(t, svc, "Ana Lopez", "Bo Chen", "Cy Diaz")
		m := newTestModel(t, svc)

		press(m, keyDown, runes("d"))

		assert.Equal(t, "Deleted contact #2", m.Status())
		assert.Len(t, m.list.Items(), 2)
		_, err := svc.Get(2)
		assert.ErrorIs(t, err, shared.ErrContactNotFound)
	})

	t.Run("from the form clears it", func(t *testing.T) {
		svc := newTestService(t)
		seed(t, svc, "Ana Lopez")
		m := newTestModel(t, svc)

		press(m, keyEnter, keyDel)

		assert.Zero(t, m.Selected())
		assert.Equal(t, ListPane, m.pane)
		assert.Empty(t, m.list.Items())
		assert.Equal(t, models.ContactInput{}, m.form.input())
	})

	t.Run("nothing selected is a no-op", func(t *testing.T) {
		svc := newTestService(t)
		m := newTestModel(t, svc)

		press(m, runes("d"))
		assert.Equal(t, "No contact selected", m.Status())
		assert.Equal(t, statusWarn, m.level)

		press(m, runes("n"), keyDel)
		assert.Equal(t, "No contact selected", m.Status())
	})

	t.Run("contact already gone", func(t *testing.T) {
		svc := newTestService(t)
		seed(t, svc, "Ana Lopez")
		m := newTestModel(t, svc)
		require.NoError(t, svc.Delete(1))

		press(m, runes("d"))
		assert.Equal(t, statusError, m.level)
		assert.Contains(t, m.Status(), "no longer exists")
		assert.Empty(t, m.list.Items(), "list is refreshed")
	})
}

func TestModel_Search(t *testing.T) {
	svc := newTestService(t)
	seed(t, svc, "Ana Lopez", "Bo Chen", "Ana Ruiz")
	m := newTestModel(t, svc)

	press(m, runes("/"))
	assert.Equal(t, SearchPrompt, m.prompting)
	typeText(m, "ana")
	press(m, keyEnter)

	assert.Equal(t, NoPrompt, m.prompting)
	assert.Len(t, m.list.Items(), 2)
	assert.Contains(t, m.View(), `Contacts matching "ana"`)

	press(m, runes("/"), keyEsc)
	assert.Len(t, m.list.Items(), 3)
	assert.Equal(t, "Search cleared", m.Status())
}

func TestModel_ImportExport(t *testing.T) {
	t.Run("import then export both formats", func(t *testing.T) {
		svc := newTestService(t)
		m := newTestModel(t, svc)
		src := th.MustWriteFile(t, "in.csv", "name,phone,email\nAna Lopez,555-1234,ana@example.com\nBo Chen,555-0100,bo@example.org\n")

		press(m, runes("i"))
		require.Equal(t, ImportPrompt, m.prompting)
		m.prompt.SetValue(src)
		press(m, keyEnter)

		assert.Equal(t, fmt.Sprintf("Imported 2 contact(s) from %s", src), m.Status())
		assert.Len(t, m.list.Items(), 2)

		csvPath := filepath.Join(t.TempDir(), "out.csv")
		press(m, runes("e"))
		m.prompt.SetValue(csvPath)
		press(m, keyEnter)
		assert.Equal(t, fmt.Sprintf("Exported 2 contact(s) to %s", csvPath), m.Status())
		assert.Contains(t, th.MustReadFile(t, csvPath), "2,Bo Chen,555-0100,bo@example.org,,")

		vcfPath := filepath.Join(t.TempDir(), "out.vcf")
		press(m, runes("v"))
		m.prompt.SetValue(vcfPath)
		press(m, keyEnter)
		assert.Contains(t, th.MustReadFile(t, vcfPath), "FN:Ana Lopez\r\n")
	})

	t.Run("default paths use the export directory", func(t *testing.T) {
		m := NewModel(newTestService(t), "exports")

		press(m, runes("v"))
		assert.Equal(t, filepath.Join("exports", "contacts.vcf"), m.prompt.Value())
		press(m, keyEsc)
		assert.Equal(t, NoPrompt, m.prompting)
	})

	t.Run("rejected import changes nothing", func(t *testing.T) {
		svc := newTestService(t)
		m := newTestModel(t, svc)
		src := th.MustWriteFile(t, "bad.csv", "name,phone,email\nAna,555,ana@example.com\n,555,x\n")

		press(m, runes("i"))
		m.prompt.SetValue(src)
		press(m, keyEnter)

		assert.Equal(t, statusError, m.level)
		assert.Contains(t, m.Status(), "row 3")
		assert.Empty(t, m.list.Items())
	})
}

func TestModel_KeyMsg_Quit(t *testing.T) {
	m := NewModel(newTestService(t), "")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	press(m, runes("n"), runes("q"))
	assert.Equal(t, "q", m.form.input().Name, "q is text while the form has focus")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_Teatest_CreateContact(t *testing.T) {
	svc := newTestService(t)
	m := NewModel(svc, t.TempDir())

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	tm.Send(runes("n"))
	tm.Type("Ana Lopez")
	tm.Send(keyTab)
	tm.Type("555-1234")
	tm.Send(keyTab)
	tm.Type("ana@example.com")
	tm.Send(keySave)

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Saved contact #1"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(*Model)
	assert.Zero(t, final.Selected())

	contacts, err := svc.List()
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "ana@example.com", contacts[0].Email)

	var buf bytes.Buffer
	_, err = svc.Export(&buf, formatter.FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Ana Lopez")
}

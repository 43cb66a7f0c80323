package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/agenda/internal/models"
)

var (
	_ list.Item = contactItem{}
)

// contactItem wraps [models.Contact] to implement [list.Item].
type contactItem struct {
	contact *models.Contact
}

func (i contactItem) FilterValue() string { return i.contact.Name }
func (i contactItem) Title() string       { return fmt.Sprintf("%d. %s", i.contact.ID, i.contact.Name) }
func (i contactItem) Description() string {
	desc := i.contact.Phone
	if i.contact.Email != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.contact.Email)
	}
	return desc
}

func contactItems(contacts []*models.Contact) []list.Item {
	items := make([]list.Item, len(contacts))
	for i, c := range contacts {
		items[i] = contactItem{contact: c}
	}
	return items
}

func newContactList() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Contacts"
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = styles.title.MarginBottom(0)
	return l
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/agenda/internal/formatter"
	"github.com/desertthunder/agenda/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgContactsLoaded MsgKind = iota
	MsgContactLoaded
	MsgContactSaved
	MsgContactDeleted
	MsgImported
	MsgExported
)

type contactsLoaded struct {
	contacts []*models.Contact
	err      error
}

type contactLoaded struct {
	contact *models.Contact
	err     error
}

type contactSaved struct {
	id      int64
	created bool
	err     error
}

type contactDeleted struct {
	id  int64
	err error
}

type transferred struct {
	path   string
	format formatter.Format
	count  int
	err    error
}

// contactsLoadedMsg is the constructor for [MsgContactsLoaded]
func contactsLoadedMsg(contacts []*models.Contact, err error) Msg {
	return Msg{kind: MsgContactsLoaded, data: contactsLoaded{contacts, err}}
}

// contactLoadedMsg is the constructor for [MsgContactLoaded]
func contactLoadedMsg(contact *models.Contact, err error) Msg {
	return Msg{kind: MsgContactLoaded, data: contactLoaded{contact, err}}
}

// contactSavedMsg is the constructor for [MsgContactSaved]
func contactSavedMsg(id int64, created bool, err error) Msg {
	return Msg{kind: MsgContactSaved, data: contactSaved{id, created, err}}
}

// contactDeletedMsg is the constructor for [MsgContactDeleted]
func contactDeletedMsg(id int64, err error) Msg {
	return Msg{kind: MsgContactDeleted, data: contactDeleted{id, err}}
}

// importedMsg is the constructor for [MsgImported]
func importedMsg(path string, count int, err error) Msg {
	return Msg{kind: MsgImported, data: transferred{path: path, format: formatter.FormatCSV, count: count, err: err}}
}

// exportedMsg is the constructor for [MsgExported]
func exportedMsg(path string, format formatter.Format, count int, err error) Msg {
	return Msg{kind: MsgExported, data: transferred{path: path, format: format, count: count, err: err}}
}

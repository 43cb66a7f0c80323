package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	move       key.Binding
	enter      key.Binding
	add        key.Binding
	remove     key.Binding
	search     key.Binding
	importCSV  key.Binding
	exportCSV  key.Binding
	exportCard key.Binding
	switchPane key.Binding
	quit       key.Binding

	next       key.Binding
	prev       key.Binding
	save       key.Binding
	formAdd    key.Binding
	formRemove key.Binding
	back       key.Binding

	submit key.Binding
	cancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		move:       key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑↓", "move")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		add:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		remove:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		importCSV:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		exportCSV:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		exportCard: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "export vcard")),
		switchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "form")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		next:       key.NewBinding(key.WithKeys("tab", "down", "enter"), key.WithHelp("tab", "next field")),
		prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		formAdd:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new")),
		formRemove: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "list")),

		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// listHelp returns the bindings shown while the contact list has focus.
func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.move, k.enter, k.add, k.remove, k.search, k.importCSV, k.exportCSV, k.exportCard, k.switchPane, k.quit}
}

// formHelp returns the bindings shown while the form has focus.
func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.next, k.prev, k.save, k.formAdd, k.formRemove, k.back}
}

// promptHelp returns the bindings shown while a prompt is open.
func (k keyMap) promptHelp() []key.Binding {
	return []key.Binding{k.submit, k.cancel}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.listHelp(),
		k.formHelp(),
		k.promptHelp(),
	}
}

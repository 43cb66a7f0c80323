// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The screen is split into two panes:
//  1. [ListPane] : Scrollable list of contacts, optionally narrowed by a search query
//  2. [FormPane] : Editable form with one input per contact field
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving results of
// store calls via the Msg union type. Every store call runs as a [tea.Cmd] so the event loop
// applies results in order.
//
// Saving validates first. Rejected fields are listed under their inputs and nothing is written.
// A successful save clears the form. Not-found and storage failures are shown in the status line.
//
// Prompts ([SearchPrompt], [ImportPrompt], [ExportCSVPrompt], [ExportVCardPrompt]) take over the
// bottom line until enter or esc. Esc on the search prompt also clears an active search.
package ui

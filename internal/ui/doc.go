// Package ui implements an interactive terminal browser for listings using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [ListingView] : Scroll the posts of a listing, loading further pages on demand
//  2. [PostView] : Inspect a single post and the media a browser would render
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Pages are fetched in a [tea.Cmd] so the terminal stays responsive while upstream is slow.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, m, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui

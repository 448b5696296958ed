package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
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
	MsgListingFetched MsgKind = iota
)

type listingFetched struct {
	listing *reddit.Listing
	more    bool // append to the current page instead of replacing it
	err     error
}

// listingFetchedMsg is the constructor for [MsgListingFetched]
func listingFetchedMsg(listing *reddit.Listing, more bool, err error) Msg {
	return Msg{
		kind: MsgListingFetched,
		data: listingFetched{listing, more, err},
	}
}

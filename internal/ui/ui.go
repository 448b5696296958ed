package ui

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RedPhoenixQ/reddit-proxy/internal/formatter"
	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListingView ViewState = iota
	PostView
)

// ListingFetcher retrieves a listing page. Implemented by [reddit.Client].
type ListingFetcher interface {
	FetchListing(ctx context.Context, path, rawQuery, accessToken string) (*reddit.Listing, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	client   ListingFetcher
	path     string
	query    string
	token    string
	width    int
	height   int
	list     list.Model
	posts    []*reddit.Post
	after    string
	loading  bool
	selected *reddit.Post
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a TUI model browsing path (with rawQuery) through client.
// An empty token browses anonymously.
func NewModel(ctx context.Context, client ListingFetcher, path, rawQuery, token string) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "/" + strings.Trim(path, "/")
	return &Model{
		ctx:    ctx,
		view:   ListingView,
		client: client,
		path:   strings.Trim(path, "/"),
		query:  rawQuery,
		token:  token,
		list:   l,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init fetches the first page of the listing.
func (m *Model) Init() tea.Cmd {
	return m.fetch(false)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListingView:
			return m.handleListingKeys(msg)
		case PostView:
			return m.handlePostKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgListingFetched:
			return m.handleListing(msg.data.(listingFetched))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case ListingView:
		return m.renderListing()
	case PostView:
		return m.renderPost()
	default:
		return ""
	}
}

func (m *Model) handleListing(msg listingFetched) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.err = nil

	if msg.more {
		m.posts = append(m.posts, msg.listing.Posts()...)
	} else {
		m.posts = msg.listing.Posts()
	}
	m.after = msg.listing.After
	cmd := m.list.SetItems(postItems(m.posts))
	return m, cmd
}

func (m *Model) handleListingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.after = ""
		return m, m.fetch(false)
	case key.Matches(msg, m.keys.more):
		if m.after == "" || m.loading {
			return m, nil
		}
		return m, m.fetch(true)
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.list.SelectedItem().(postItem); ok {
			m.selected = item.post
			m.view = PostView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handlePostKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListingView
		m.selected = nil
	}
	return m, nil
}

func (m *Model) fetch(more bool) tea.Cmd {
	m.loading = true
	query := m.query
	if more {
		query = pageQuery(m.query, m.after)
	}
	return func() tea.Msg {
		listing, err := m.client.FetchListing(m.ctx, m.path, query, m.token)
		return listingFetchedMsg(listing, more, err)
	}
}

// pageQuery returns rawQuery pointing at the page after the given cursor.
func pageQuery(rawQuery, after string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	values.Del("before")
	values.Set("after", after)
	return values.Encode()
}

func (m *Model) renderListing() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.reload, m.keys.quit}
	if m.after != "" {
		helpKeys = append(helpKeys, m.keys.more)
	}
	status := styles.help.Render(fmt.Sprintf("%d posts", len(m.posts))) + "\n"
	if m.loading {
		status = styles.warn.Render("Loading...") + "\n"
	}
	return fmt.Sprintf("%s%s\n\n%s", status, m.list.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderPost() string {
	if m.selected == nil {
		return ""
	}
	s := formatter.Summarize(m.selected)

	title := styles.title.Render(s.Title)
	if s.Over18 {
		title += styles.On(" NSFW ", lipgloss.Color("#FF0000"))
	}
	info := fmt.Sprintf("%s • u/%s • %d points • %d comments\n%s\n",
		s.Subreddit, s.Author, s.Score, s.NumComments, s.URL)

	var body string
	switch m.selected.Content() {
	case reddit.ContentSelftext:
		body = "\n" + *m.selected.Selftext + "\n"
	case reddit.ContentMissing:
		body = "\n" + styles.warn.Render("Content appears to be missing") + "\n"
	default:
		body = "\n" + styles.ok.Render(fmt.Sprintf("%s (%d media)", s.Content, len(s.Media)))
		for _, u := range s.Media {
			body += "\n  • " + u
		}
		body += "\n"
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n%s", title, info, body, helpView)
}

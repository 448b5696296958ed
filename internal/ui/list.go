package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
)

var _ list.Item = postItem{}

// postItem wraps [reddit.Post] to implement [list.Item].
type postItem struct {
	post *reddit.Post
}

func (i postItem) FilterValue() string { return i.post.Title }
func (i postItem) Title() string       { return i.post.Title }
func (i postItem) Description() string {
	author := "[removed]"
	if i.post.Author != nil {
		author = "u/" + *i.post.Author
	}
	return fmt.Sprintf("%s • %s • %d points • %s", i.post.SubredditNamePrefixed, author, i.post.Score, i.post.Content())
}

func postItems(posts []*reddit.Post) []list.Item {
	items := make([]list.Item, len(posts))
	for i, p := range posts {
		items[i] = postItem{post: p}
	}
	return items
}

// package formatter provides functions to export listing data to various formats (JSON, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

// Supported export formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

const removedAuthor = "[removed]"

// PostSummary is the flattened view of a post shared by every export format.
type PostSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subreddit   string    `json:"subreddit"`
	Author      string    `json:"author"`
	URL         string    `json:"url"`
	Permalink   string    `json:"permalink,omitempty"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`
	CreatedAt   time.Time `json:"created_at"`
	Content     string    `json:"content"`
	Media       []string  `json:"media,omitempty"`
	MediaIDs    []string  `json:"media_ids,omitempty"` // gallery metadata keys, including failed media
	Over18      bool      `json:"over_18,omitempty"`
}

// ListingExport is a listing page prepared for export.
type ListingExport struct {
	Path    string        `json:"path"`
	After   string        `json:"after,omitempty"`
	Before  string        `json:"before,omitempty"`
	Posts   []PostSummary `json:"posts"`
	Skipped int           `json:"skipped"` // children of kinds other than post
}

// NewListingExport summarizes listing, fetched from path.
func NewListingExport(path string, listing *reddit.Listing) ListingExport {
	export := ListingExport{
		Path:   "/" + strings.Trim(path, "/"),
		After:  listing.After,
		Before: listing.Before,
		Posts:  []PostSummary{},
	}
	for _, child := range listing.Children {
		if child.Post == nil {
			export.Skipped++
			continue
		}
		export.Posts = append(export.Posts, Summarize(child.Post))
	}
	return export
}

// Summarize flattens a post into a [PostSummary].
func Summarize(p *reddit.Post) PostSummary {
	author := removedAuthor
	if p.Author != nil {
		author = *p.Author
	}
	summary := PostSummary{
		ID:          p.ID,
		Title:       p.Title,
		Subreddit:   p.SubredditNamePrefixed,
		Author:      author,
		URL:         p.URL,
		Permalink:   p.Permalink,
		Score:       p.Score,
		NumComments: p.NumComments,
		CreatedAt:   time.Unix(int64(p.CreatedUTC), 0).UTC(),
		Content:     p.Content().String(),
		Media:       MediaURLs(p),
		Over18:      p.Over18,
	}
	if p.Gallery != nil {
		summary.MediaIDs = p.Gallery.MediaIDs()
	}
	return summary
}

// MediaURLs lists the URLs a renderer would display for the post, in display order.
func MediaURLs(p *reddit.Post) []string {
	switch p.Content() {
	case reddit.ContentPreview:
		if v := p.Preview.RedditVideoPreview; v != nil {
			return []string{v.FallbackURL}
		}
		if img, ok := p.Preview.Image(); ok {
			set, _ := img.Preferred()
			return []string{set.Source.URL}
		}
	case reddit.ContentGallery:
		var urls []string
		for _, item := range p.Gallery.Items {
			if media, err := p.Gallery.Resolve(item); err == nil {
				urls = append(urls, media.Source.URL)
			}
		}
		return urls
	}
	return nil
}

// Export renders e in the named format.
func Export(e ListingExport, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return ExportToText(e)
	case FormatMarkdown, "md":
		return ExportToMarkdown(e)
	case FormatJSON:
		return ExportToJSON(e, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportToText converts a ListingExport to plain text format
func ExportToText(e ListingExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Listing: %s\n", e.Path))
	buf.WriteString(fmt.Sprintf("Posts: %d\n\n", len(e.Posts)))

	for i, p := range e.Posts {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s (u/%s, %d points, %d comments)\n",
			i+1, p.Subreddit, p.Title, p.Author, p.Score, p.NumComments))
		buf.WriteString(fmt.Sprintf("   %s\n", p.URL))
	}

	if e.After != "" {
		buf.WriteString(fmt.Sprintf("\nNext: %s\n", e.After))
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a ListingExport to Markdown format
func ExportToMarkdown(e ListingExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", e.Path))
	buf.WriteString(fmt.Sprintf("**Posts**: %d\n\n", len(e.Posts)))

	for i, p := range e.Posts {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s) by u/%s in %s (%d points, %d comments)\n",
			i+1, escapeMarkdown(p.Title), p.URL, escapeMarkdown(p.Author), p.Subreddit, p.Score, p.NumComments))
		for _, m := range p.Media {
			buf.WriteString(fmt.Sprintf("   - <%s>\n", m))
		}
	}

	if e.After != "" {
		buf.WriteString(fmt.Sprintf("\n**Next page**: `after=%s`\n", e.After))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a ListingExport to JSON
func ExportToJSON(e ListingExport, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(e, "", "  ")
	} else {
		data, err = json.Marshal(e)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport writes exported data to path.
func WriteExport(data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`, "`", "\\`")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

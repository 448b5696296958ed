package reddit

import (
	"encoding/json"
)

// Kind is the upstream type tag carried by every [Thing].
type Kind string

const (
	KindPost    Kind = "t3"
	KindListing Kind = "Listing"
)

// deletedAuthor is the marker upstream sends in place of a removed account.
const deletedAuthor = "[deleted]"

// Thing is the tagged union every upstream response decodes to.
//
// Exactly one of Post and Listing is set for a known kind. Any other kind
// keeps its tag in Kind and leaves both nil.
type Thing struct {
	Kind    Kind
	Post    *Post
	Listing *Listing
}

// Known reports whether the thing decoded to a modeled variant.
func (t Thing) Known() bool {
	return t.Post != nil || t.Listing != nil
}

type thingJSON struct {
	Kind *string         `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func (t *Thing) UnmarshalJSON(data []byte) error {
	var raw thingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return atPath("", err)
	}
	if raw.Kind == nil {
		return missing("kind")
	}

	thing := Thing{Kind: Kind(*raw.Kind)}
	switch thing.Kind {
	case KindPost:
		if isNull(raw.Data) {
			return missing("data")
		}
		var post Post
		if err := decodeField(raw.Data, "data", &post); err != nil {
			return err
		}
		thing.Post = &post
	case KindListing:
		if isNull(raw.Data) {
			return missing("data")
		}
		var listing Listing
		if err := decodeField(raw.Data, "data", &listing); err != nil {
			return err
		}
		thing.Listing = &listing
	}

	*t = thing
	return nil
}

// Listing is a page of things with optional pagination cursors.
type Listing struct {
	After    string // cursor for the next page, empty on the last page
	Before   string
	Dist     *int
	Children []Thing
}

// Posts returns the post children in upstream order, skipping every other kind.
func (l *Listing) Posts() []*Post {
	posts := make([]*Post, 0, len(l.Children))
	for _, child := range l.Children {
		if child.Post != nil {
			posts = append(posts, child.Post)
		}
	}
	return posts
}

type listingJSON struct {
	After    *string         `json:"after"`
	Before   *string         `json:"before"`
	Dist     *int            `json:"dist"`
	Children json.RawMessage `json:"children"`
}

func (l *Listing) UnmarshalJSON(data []byte) error {
	var raw listingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return atPath("", err)
	}
	if isNull(raw.Children) {
		return missing("children")
	}

	elems, err := decodeArray(raw.Children, "children")
	if err != nil {
		return err
	}

	listing := Listing{Dist: raw.Dist, Children: make([]Thing, 0, len(elems))}
	if raw.After != nil {
		listing.After = *raw.After
	}
	if raw.Before != nil {
		listing.Before = *raw.Before
	}
	for i, elem := range elems {
		var child Thing
		if err := decodeField(elem, index("children", i), &child); err != nil {
			return err
		}
		listing.Children = append(listing.Children, child)
	}

	*l = listing
	return nil
}

// ContentKind names the content block a [Post] carries.
type ContentKind int

const (
	ContentMissing ContentKind = iota
	ContentPreview
	ContentGallery
	ContentSelftext
)

func (c ContentKind) String() string {
	switch c {
	case ContentPreview:
		return "preview"
	case ContentGallery:
		return "gallery"
	case ContentSelftext:
		return "selftext"
	default:
		return "missing"
	}
}

// Post is a submission (kind t3).
//
// At most one of Preview, Gallery and Selftext is set, chosen in that order of precedence.
type Post struct {
	ID                    string
	Name                  string
	Title                 string
	Subreddit             string
	SubredditNamePrefixed string
	Author                *string // nil when removed
	URL                   string
	Permalink             string
	Domain                string
	Thumbnail             *string
	Ups                   int
	Downs                 int
	Score                 int
	UpvoteRatio           float64
	NumComments           int
	CreatedUTC            float64
	Saved                 bool
	Hidden                bool
	Spoiler               bool
	Pinned                bool
	Stickied              bool
	Over18                bool
	IsVideo               bool

	Preview  *Preview
	Gallery  *Gallery
	Selftext *string
}

// Content reports which content block is set.
func (p *Post) Content() ContentKind {
	switch {
	case p.Preview != nil:
		return ContentPreview
	case p.Gallery != nil:
		return ContentGallery
	case p.Selftext != nil:
		return ContentSelftext
	default:
		return ContentMissing
	}
}

type postJSON struct {
	ID                    *string `json:"id"`
	Name                  string  `json:"name"`
	Title                 *string `json:"title"`
	Subreddit             *string `json:"subreddit"`
	SubredditNamePrefixed *string `json:"subreddit_name_prefixed"`
	Author                *string `json:"author"`
	URL                   *string `json:"url"`
	Permalink             string  `json:"permalink"`
	Domain                string  `json:"domain"`
	Thumbnail             *string `json:"thumbnail"`
	Ups                   int     `json:"ups"`
	Downs                 int     `json:"downs"`
	Score                 int     `json:"score"`
	UpvoteRatio           float64 `json:"upvote_ratio"`
	NumComments           int     `json:"num_comments"`
	CreatedUTC            float64 `json:"created_utc"`
	Saved                 bool    `json:"saved"`
	Hidden                bool    `json:"hidden"`
	Spoiler               bool    `json:"spoiler"`
	Pinned                bool    `json:"pinned"`
	Stickied              bool    `json:"stickied"`
	Over18                bool    `json:"over_18"`
	IsVideo               bool    `json:"is_video"`
	Selftext              *string `json:"selftext"`

	Preview       json.RawMessage `json:"preview"`
	GalleryData   json.RawMessage `json:"gallery_data"`
	MediaMetadata json.RawMessage `json:"media_metadata"`
}

func (p *Post) UnmarshalJSON(data []byte) error {
	var raw postJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return atPath("", err)
	}

	required := []struct {
		key string
		val *string
	}{
		{"id", raw.ID},
		{"title", raw.Title},
		{"subreddit", raw.Subreddit},
		{"subreddit_name_prefixed", raw.SubredditNamePrefixed},
		{"url", raw.URL},
	}
	for _, r := range required {
		if r.val == nil {
			return missing(r.key)
		}
	}

	post := Post{
		ID:                    *raw.ID,
		Name:                  raw.Name,
		Title:                 *raw.Title,
		Subreddit:             *raw.Subreddit,
		SubredditNamePrefixed: *raw.SubredditNamePrefixed,
		URL:                   *raw.URL,
		Permalink:             raw.Permalink,
		Domain:                raw.Domain,
		Thumbnail:             raw.Thumbnail,
		Ups:                   raw.Ups,
		Downs:                 raw.Downs,
		Score:                 raw.Score,
		UpvoteRatio:           raw.UpvoteRatio,
		NumComments:           raw.NumComments,
		CreatedUTC:            raw.CreatedUTC,
		Saved:                 raw.Saved,
		Hidden:                raw.Hidden,
		Spoiler:               raw.Spoiler,
		Pinned:                raw.Pinned,
		Stickied:              raw.Stickied,
		Over18:                raw.Over18,
		IsVideo:               raw.IsVideo,
	}
	if raw.Author != nil && *raw.Author != deletedAuthor {
		post.Author = raw.Author
	}

	switch {
	case !isNull(raw.Preview):
		var preview Preview
		if err := decodeField(raw.Preview, "preview", &preview); err != nil {
			return err
		}
		post.Preview = &preview
	case !isNull(raw.GalleryData):
		gallery, err := decodeGallery(raw.GalleryData, raw.MediaMetadata)
		if err != nil {
			return err
		}
		post.Gallery = gallery
	case raw.Selftext != nil && *raw.Selftext != "":
		post.Selftext = raw.Selftext
	}

	*p = post
	return nil
}

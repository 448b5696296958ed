package web

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/RedPhoenixQ/reddit-proxy/internal/reddit"
)

const (
	missingContentText = "Content appears to be missing"
	missingMediaText   = "Missing media_id in media_metadata"
	brokenMediaText    = "Media unavailable"
)

// htmlWriter stops writing after the first error.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes escaped character data.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// urlAttr writes a URL attribute, replacing unsafe schemes.
func (h *htmlWriter) urlAttr(name, value string) {
	h.attr(name, string(templ.URL(value)))
}

func (h *htmlWriter) intAttr(name string, value int) {
	if value > 0 {
		h.attr(name, strconv.Itoa(value))
	}
}

func (h *htmlWriter) component(c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

func render(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

// Page renders the full document for page.
func Page(page FeedPage) templ.Component {
	return Layout(page.Title, Header(page), Posts(page))
}

// Layout wraps body in the document shell.
func Layout(title string, body ...templ.Component) templ.Component {
	return render(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1.0"><title>`)
		h.text(title)
		h.raw(`</title><link href="/assets/css/output.css" rel="stylesheet">`)
		for _, src := range []string{
			"/assets/js/htmx.js",
			"/assets/js/van-1.3.0.nomodule.min.js",
			"/assets/js/van-element.browser.js",
			"/assets/js/van-x.nomodule.min.js",
		} {
			h.raw(`<script type="text/javascript" src="` + src + `"></script>`)
		}
		h.raw(`<script type="module" src="/assets/components/gallery.js"></script>`)
		h.raw(`</head><body hx-boost="true" class="bg-slate-900">`)
		for _, c := range body {
			h.component(c)
		}
		h.raw(`</body></html>`)
	})
}

// Header renders the top bar with the login or logout link.
func Header(page FeedPage) templ.Component {
	return render(func(h *htmlWriter) {
		h.raw(`<header class="sticky top-0 flex justify-between bg-slate-800 p-2 text-slate-100"><a href="/">Reddit</a>`)
		switch {
		case page.Authenticated:
			h.raw(`<a`)
			h.urlAttr("href", page.LogoutURL)
			h.raw(` hx-boost="false">Logout</a>`)
		case page.LoginURL != "":
			h.raw(`<a`)
			h.urlAttr("href", page.LoginURL)
			h.raw(` hx-boost="false">Login</a>`)
		}
		h.raw(`</header>`)
	})
}

// Posts renders the #posts container: every known post in order plus the next page link.
// Things of unknown kinds render nothing.
func Posts(page FeedPage) templ.Component {
	return render(func(h *htmlWriter) {
		h.raw(`<div id="posts" class="space-y-4 p-4">`)
		for _, post := range page.Posts() {
			h.component(PostCard(post))
		}
		if page.NextURL != "" {
			h.raw(`<a class="block text-center text-slate-100"`)
			h.urlAttr("href", page.NextURL)
			h.urlAttr("hx-get", page.NextURL)
			h.raw(` hx-target="#posts" hx-swap="outerHTML" hx-push-url="true">Next</a>`)
		}
		h.raw(`</div>`)
	})
}

// PostCard renders one post with its byline and content.
func PostCard(p *reddit.Post) templ.Component {
	return render(func(h *htmlWriter) {
		h.raw(`<div class="rounded border bg-slate-800 p-2 text-slate-100"`)
		h.attr("data-post-id", p.ID)
		h.raw(`><a`)
		h.urlAttr("href", p.URL)
		h.raw(`>`)
		h.text(p.Title)
		h.raw(`</a><div class="flex gap-2">`)
		if p.Author != nil {
			h.raw(`<span>`)
			h.text(*p.Author)
			h.raw(`</span>`)
		} else {
			h.raw(`<i>removed</i>`)
		}
		h.raw(`<a`)
		h.urlAttr("href", "/"+strings.TrimPrefix(p.SubredditNamePrefixed, "/"))
		h.raw(`>`)
		h.text(p.Subreddit)
		h.raw(`</a></div>`)
		h.component(Content(p))
		h.raw(`</div>`)
	})
}

// Content renders the post's content block.
func Content(p *reddit.Post) templ.Component {
	switch p.Content() {
	case reddit.ContentPreview:
		return Preview(p.Preview, poster(p.Thumbnail))
	case reddit.ContentGallery:
		return Gallery(p.Gallery)
	case reddit.ContentSelftext:
		return render(func(h *htmlWriter) {
			h.raw(`<span class="whitespace-pre-wrap">`)
			h.text(*p.Selftext)
			h.raw(`</span>`)
		})
	default:
		return render(func(h *htmlWriter) {
			h.raw(`<span class="text-center text-sm italic">` + missingContentText + `</span>`)
		})
	}
}

// poster returns thumbnail when it is a usable URL. Upstream uses markers such as "self" and "default".
func poster(thumbnail *string) string {
	if thumbnail == nil {
		return ""
	}
	if strings.HasPrefix(*thumbnail, "https://") || strings.HasPrefix(*thumbnail, "http://") {
		return *thumbnail
	}
	return ""
}

// Preview renders a video preview when present, otherwise the preferred rendition of the first image.
func Preview(p *reddit.Preview, poster string) templ.Component {
	return render(func(h *htmlWriter) {
		if v := p.RedditVideoPreview; v != nil {
			h.raw(`<video class="h-full max-h-full w-full"`)
			h.intAttr("width", v.Width)
			h.intAttr("height", v.Height)
			h.raw(` autoplay controls playsinline loop muted`)
			h.urlAttr("src", v.FallbackURL)
			h.raw(`></video>`)
			return
		}

		img, ok := p.Image()
		if !ok {
			return
		}
		set, kind := img.Preferred()
		switch kind {
		case reddit.MediaVideo:
			h.component(Video(set, poster))
		case reddit.MediaGIF:
			h.component(Image(reddit.SourceSet{Source: set.Source}, ""))
		default:
			h.component(Image(set, ""))
		}
	})
}

// Image renders an <img> with a srcset built from the resolutions.
func Image(set reddit.SourceSet, alt string) templ.Component {
	return render(func(h *htmlWriter) {
		h.raw(`<img class="m-auto w-full"`)
		h.intAttr("width", set.Source.Width)
		h.intAttr("height", set.Source.Height)
		h.urlAttr("src", set.Source.URL)
		if srcset := srcSet(set); srcset != "" {
			h.attr("srcset", srcset)
		}
		h.attr("alt", alt)
		h.raw(` loading="lazy">`)
	})
}

// srcSet lists every rendition with a known width as a width descriptor.
func srcSet(set reddit.SourceSet) string {
	if len(set.Resolutions) == 0 {
		return ""
	}
	all := make([]reddit.Source, 0, len(set.Resolutions)+1)
	all = append(all, set.Resolutions...)
	all = append(all, set.Source)

	var entries []string
	for _, s := range all {
		if s.Width <= 0 {
			continue
		}
		entries = append(entries, fmt.Sprintf("%s %dw", string(templ.URL(s.URL)), s.Width))
	}
	return strings.Join(entries, ", ")
}

// Video renders a looping muted <video> with one <source> per resolution.
func Video(set reddit.SourceSet, poster string) templ.Component {
	return render(func(h *htmlWriter) {
		h.raw(`<video class="h-full max-h-full w-full"`)
		h.intAttr("width", set.Source.Width)
		h.intAttr("height", set.Source.Height)
		h.urlAttr("src", set.Source.URL)
		if poster != "" {
			h.urlAttr("poster", poster)
		}
		h.raw(` autoplay controls playsinline loop muted>`)
		for _, s := range set.Resolutions {
			h.raw(`<source`)
			h.intAttr("width", s.Width)
			h.intAttr("height", s.Height)
			h.urlAttr("src", s.URL)
			h.raw(`>`)
		}
		h.raw(`</video>`)
	})
}

// Gallery renders every item in order; items whose media cannot be resolved get a placeholder.
func Gallery(g *reddit.Gallery) templ.Component {
	return render(func(h *htmlWriter) {
		h.raw(`<custom-gallery class="flex w-full snap-x snap-mandatory overflow-auto">`)
		for _, item := range g.Items {
			media, err := g.Resolve(item)
			caption := ""
			if item.Caption != nil {
				caption = *item.Caption
			}
			switch {
			case err != nil && media.Err == nil:
				h.raw(`<div class="w-full">` + missingMediaText + `</div>`)
			case err != nil:
				h.raw(`<div class="w-full">` + brokenMediaText + `</div>`)
			case media.ContentType == reddit.GalleryVideo:
				h.component(Video(media.SourceSet, ""))
			default:
				h.component(Image(media.SourceSet, caption))
			}
		}
		h.raw(`</custom-gallery>`)
	})
}

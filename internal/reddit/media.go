package reddit

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

// Source is a single media rendition.
type Source struct {
	URL    string
	Width  int
	Height int
}

// sourceJSON accepts both the long keys used in previews and the short
// u/x/y keys used in gallery metadata.
type sourceJSON struct {
	URL    *string `json:"url"`
	U      *string `json:"u"`
	Width  *int    `json:"width"`
	X      *int    `json:"x"`
	Height *int    `json:"height"`
	Y      *int    `json:"y"`
}

func (s *Source) UnmarshalJSON(data []byte) error {
	var raw sourceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return atPath("", err)
	}

	var src Source
	switch {
	case raw.URL != nil:
		src.URL = *raw.URL
	case raw.U != nil:
		src.URL = *raw.U
	default:
		return missing("url")
	}
	src.Width = firstInt(raw.Width, raw.X)
	src.Height = firstInt(raw.Height, raw.Y)

	*s = src
	return nil
}

func firstInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

// SourceSet is a primary rendition plus its downscaled alternatives.
type SourceSet struct {
	Source      Source
	Resolutions []Source
}

type sourceSetJSON struct {
	Source      json.RawMessage `json:"source"`
	S           json.RawMessage `json:"s"`
	Resolutions json.RawMessage `json:"resolutions"`
	P           json.RawMessage `json:"p"`
}

func (ss *SourceSet) UnmarshalJSON(data []byte) error {
	var raw sourceSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return atPath("", err)
	}

	src, ok := firstPresent(keyed{"source", raw.Source}, keyed{"s", raw.S})
	if !ok {
		return missing("source")
	}

	var set SourceSet
	if err := decodeField(src.raw, src.key, &set.Source); err != nil {
		return err
	}

	if res, ok := firstPresent(keyed{"resolutions", raw.Resolutions}, keyed{"p", raw.P}); ok {
		elems, err := decodeArray(res.raw, res.key)
		if err != nil {
			return err
		}
		set.Resolutions = make([]Source, 0, len(elems))
		for i, elem := range elems {
			var r Source
			if err := decodeField(elem, index(res.key, i), &r); err != nil {
				return err
			}
			set.Resolutions = append(set.Resolutions, r)
		}
	}

	*ss = set
	return nil
}

// MediaKind describes how a chosen rendition should be displayed.
type MediaKind int

const (
	MediaImage MediaKind = iota
	MediaGIF
	MediaVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaGIF:
		return "gif"
	case MediaVideo:
		return "video"
	default:
		return "image"
	}
}

// Preview is the media preview attached to a link post.
//
// RedditVideoPreview takes precedence over Images; the first image is canonical.
type Preview struct {
	Enabled            bool
	Images             []PreviewSourceSet
	RedditVideoPreview *VideoPreview
}

// Image returns the canonical preview image, if any.
func (p *Preview) Image() (PreviewSourceSet, bool) {
	if len(p.Images) == 0 {
		return PreviewSourceSet{}, false
	}
	return p.Images[0], true
}

type previewJSON struct {
	Enabled            bool            `json:"enabled"`
	Images             json.RawMessage `json:"images"`
	RedditVideoPreview json.RawMessage `json:"reddit_video_preview"`
}

func (p *Preview) UnmarshalJSON(data []byte) error {
	var raw previewJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return atPath("", err)
	}

	preview := Preview{Enabled: raw.Enabled}
	if !isNull(raw.RedditVideoPreview) {
		var video VideoPreview
		if err := decodeField(raw.RedditVideoPreview, "reddit_video_preview", &video); err != nil {
			return err
		}
		preview.RedditVideoPreview = &video
	}

	elems, err := decodeArray(raw.Images, "images")
	if err != nil {
		return err
	}
	for i, elem := range elems {
		var img PreviewSourceSet
		if err := decodeField(elem, index("images", i), &img); err != nil {
			return err
		}
		preview.Images = append(preview.Images, img)
	}

	*p = preview
	return nil
}

// PreviewSourceSet is one preview image: the default renditions plus optional
// animated variants.
type PreviewSourceSet struct {
	ID       string
	Default  SourceSet
	Variants *ImageVariants
}

// ImageVariants holds the animated renditions of a preview image.
type ImageVariants struct {
	GIF *SourceSet
	MP4 *SourceSet
}

// Preferred picks the rendition to display: gif, then mp4, then the default.
func (p PreviewSourceSet) Preferred() (SourceSet, MediaKind) {
	if p.Variants != nil {
		if p.Variants.GIF != nil {
			return *p.Variants.GIF, MediaGIF
		}
		if p.Variants.MP4 != nil {
			return *p.Variants.MP4, MediaVideo
		}
	}
	return p.Default, MediaImage
}

type previewSourceSetJSON struct {
	ID       string `json:"id"`
	Variants *struct {
		GIF json.RawMessage `json:"gif"`
		MP4 json.RawMessage `json:"mp4"`
	} `json:"variants"`
}

func (p *PreviewSourceSet) UnmarshalJSON(data []byte) error {
	var raw previewSourceSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return atPath("", err)
	}

	// source and resolutions sit beside id, not under a nested key.
	set := PreviewSourceSet{ID: raw.ID}
	if err := json.Unmarshal(data, &set.Default); err != nil {
		return atPath("", err)
	}

	if raw.Variants != nil {
		gif, err := optionalSourceSet(raw.Variants.GIF, "variants.gif")
		if err != nil {
			return err
		}
		mp4, err := optionalSourceSet(raw.Variants.MP4, "variants.mp4")
		if err != nil {
			return err
		}
		if gif != nil || mp4 != nil {
			set.Variants = &ImageVariants{GIF: gif, MP4: mp4}
		}
	}

	*p = set
	return nil
}

func optionalSourceSet(raw json.RawMessage, path string) (*SourceSet, error) {
	if isNull(raw) {
		return nil, nil
	}
	var set SourceSet
	if err := decodeField(raw, path, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// VideoPreview is a transcoded video preview hosted upstream.
type VideoPreview struct {
	FallbackURL string
	Width       int
	Height      int
	Duration    int
	IsGIF       bool
}

type videoPreviewJSON struct {
	FallbackURL *string `json:"fallback_url"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Duration    int     `json:"duration"`
	IsGIF       bool    `json:"is_gif"`
}

func (v *VideoPreview) UnmarshalJSON(data []byte) error {
	var raw videoPreviewJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return atPath("", err)
	}
	if raw.FallbackURL == nil {
		return missing("fallback_url")
	}
	*v = VideoPreview{
		FallbackURL: *raw.FallbackURL,
		Width:       raw.Width,
		Height:      raw.Height,
		Duration:    raw.Duration,
		IsGIF:       raw.IsGIF,
	}
	return nil
}

// GalleryContentType is the media type of a gallery entry, as tagged upstream.
type GalleryContentType string

const (
	GalleryImage         GalleryContentType = "Image"
	GalleryAnimatedImage GalleryContentType = "AnimatedImage"
	GalleryVideo         GalleryContentType = "RedditVideo"
)

// Gallery is an ordered set of items resolved against a media metadata map.
type Gallery struct {
	Items         []GalleryItem
	MediaMetadata map[string]GalleryMedia
}

// GalleryItem references an entry in [Gallery.MediaMetadata].
type GalleryItem struct {
	ID      int64
	MediaID string
	Caption *string
}

// GalleryMedia is a decoded media metadata entry.
//
// Err is set when the entry could not be decoded; the rest of the gallery is unaffected.
type GalleryMedia struct {
	SourceSet
	ContentType GalleryContentType
	Status      string
	MIME        string
	Err         error
}

// Resolve looks up the media for item.
func (g *Gallery) Resolve(item GalleryItem) (GalleryMedia, error) {
	media, ok := g.MediaMetadata[item.MediaID]
	if !ok {
		return GalleryMedia{}, fmt.Errorf("%w: %q", shared.ErrGalleryMediaMissing, item.MediaID)
	}
	if media.Err != nil {
		return media, media.Err
	}
	return media, nil
}

// MediaIDs returns the metadata keys in sorted order.
func (g *Gallery) MediaIDs() []string {
	ids := make([]string, 0, len(g.MediaMetadata))
	for id := range g.MediaMetadata {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type galleryDataJSON struct {
	Items json.RawMessage `json:"items"`
}

type galleryItemJSON struct {
	ID      int64   `json:"id"`
	MediaID string  `json:"media_id"`
	Caption *string `json:"caption"`
}

func decodeGallery(galleryData, mediaMetadata json.RawMessage) (*Gallery, error) {
	var data galleryDataJSON
	if err := decodeField(galleryData, "gallery_data", &data); err != nil {
		return nil, err
	}
	if isNull(data.Items) {
		return nil, missing("gallery_data.items")
	}

	elems, err := decodeArray(data.Items, "gallery_data.items")
	if err != nil {
		return nil, err
	}

	gallery := &Gallery{
		Items:         make([]GalleryItem, 0, len(elems)),
		MediaMetadata: make(map[string]GalleryMedia),
	}
	for i, elem := range elems {
		var item galleryItemJSON
		if err := decodeField(elem, index("gallery_data.items", i), &item); err != nil {
			return nil, err
		}
		gallery.Items = append(gallery.Items, GalleryItem(item))
	}

	if isNull(mediaMetadata) {
		return gallery, nil
	}

	var entries map[string]json.RawMessage
	if err := decodeField(mediaMetadata, "media_metadata", &entries); err != nil {
		return nil, err
	}
	for id, entry := range entries {
		media, err := decodeGalleryMedia(entry)
		if err != nil {
			media.Err = atPath("media_metadata."+id, err)
		}
		gallery.MediaMetadata[id] = media
	}

	return gallery, nil
}

type galleryMediaJSON struct {
	Status string  `json:"status"`
	E      *string `json:"e"`
	M      string  `json:"m"`
	// RedditVideo entries carry their playlist URLs at the top level.
	HLSURL  *string `json:"hlsUrl"`
	DashURL *string `json:"dashUrl"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
}

type animatedSourceJSON struct {
	GIF *string `json:"gif"`
	MP4 *string `json:"mp4"`
	X   int     `json:"x"`
	Y   int     `json:"y"`
}

// decodeGalleryMedia decodes one media_metadata entry. The returned media
// keeps Status and ContentType even when err is non-nil.
func decodeGalleryMedia(data json.RawMessage) (GalleryMedia, error) {
	var raw galleryMediaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return GalleryMedia{}, atPath("", err)
	}

	media := GalleryMedia{Status: raw.Status, MIME: raw.M}
	if raw.E == nil {
		return media, missing("e")
	}
	media.ContentType = GalleryContentType(*raw.E)

	switch media.ContentType {
	case GalleryImage:
		if err := json.Unmarshal(data, &media.SourceSet); err != nil {
			return media, atPath("", err)
		}
	case GalleryAnimatedImage:
		var s struct {
			S json.RawMessage `json:"s"`
		}
		if err := json.Unmarshal(data, &s); err != nil {
			return media, atPath("", err)
		}
		if isNull(s.S) {
			return media, missing("s")
		}
		var anim animatedSourceJSON
		if err := decodeField(s.S, "s", &anim); err != nil {
			return media, err
		}
		if anim.GIF == nil {
			return media, missing("s.gif")
		}
		media.Source = Source{URL: *anim.GIF, Width: anim.X, Height: anim.Y}
	case GalleryVideo:
		switch {
		case raw.HLSURL != nil:
			media.Source = Source{URL: *raw.HLSURL, Width: raw.X, Height: raw.Y}
		case raw.DashURL != nil:
			media.Source = Source{URL: *raw.DashURL, Width: raw.X, Height: raw.Y}
		default:
			return media, missing("hlsUrl")
		}
	default:
		return media, &DecodeError{
			Path:  "e",
			Err:   shared.ErrDecodeSchema,
			Cause: fmt.Errorf("unknown gallery content type %q", *raw.E),
		}
	}

	return media, nil
}

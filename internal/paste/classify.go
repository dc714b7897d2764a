package paste

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// MediaKind is the outcome of classifying a pasted string.
type MediaKind int

const (
	PlainText MediaKind = iota
	Image
	Video
)

// String returns the lowercase name used in JSON and logs.
func (k MediaKind) String() string {
	switch k {
	case Image:
		return "image"
	case Video:
		return "video"
	default:
		return "text"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k MediaKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Classification describes what a pasted string points at.
// Platform, VideoID, PlaylistID and StartIndex are only set for Video.
type Classification struct {
	Kind       MediaKind `json:"kind"`
	URL        string    `json:"url,omitempty"`
	Platform   string    `json:"platform,omitempty"`
	VideoID    string    `json:"video_id,omitempty"`
	PlaylistID string    `json:"playlist_id,omitempty"`
	StartIndex *int      `json:"start_index,omitempty"`
}

// IsMedia reports whether the classification is an image or a video.
func (c Classification) IsMedia() bool {
	return c.Kind == Image || c.Kind == Video
}

// DefaultImageHosts is the allow-list used when none is configured.
var DefaultImageHosts = []string{
	"images.unsplash.com",
	"plus.unsplash.com",
	"images.pexels.com",
	"cdn.pixabay.com",
	"i.imgur.com",
	"pbs.twimg.com",
	"i.pinimg.com",
	"lh3.googleusercontent.com",
	"encrypted-tbn0.gstatic.com",
	"i.ytimg.com",
	"img.youtube.com",
	"upload.wikimedia.org",
	"media.giphy.com",
	"i.redd.it",
	"preview.redd.it",
	"scontent.cdninstagram.com",
	"images.ctfassets.net",
	"res.cloudinary.com",
}

// DefaultYouTubeEmbedBase is the prefix for generated embed URLs.
const DefaultYouTubeEmbedBase = "https://www.youtube.com/embed/"

var (
	schemeRegex = regexp.MustCompile(`(?i)^https?://`)

	youtubeRegex = regexp.MustCompile(`(?i)^https?://(?:www\.|m\.)?(?:youtube\.com/(?:watch\?(?:[^#]*&)?v=|embed/|v/|shorts/)|youtu\.be/)([A-Za-z0-9_-]+)`)

	imageExtRegex = regexp.MustCompile(`(?i)\.(?:png|jpe?g|webp|gif|avif|svg|bmp|tiff?)$`)

	// Matched against host + path only, so a query value such as
	// ?file=a.png does not count.
	imagePathRegex = regexp.MustCompile(`(?i)^[^/\s]+/\S*\.(?:png|jpe?g|webp|gif|svg)`)

	pathMarkers = []string{"image", "img", "photo", "picture"}
	hostMarkers = []string{"cdn", "static", "media", "assets"}
)

// Classifier maps candidate strings to a Classification.
// The zero value is not usable; build one with NewClassifier.
type Classifier struct {
	imageHosts map[string]struct{}
	embedBase  string
}

// NewClassifier returns a Classifier that treats the given hosts as image hosts.
// A nil slice selects DefaultImageHosts; an empty non-nil slice disables the host check.
func NewClassifier(imageHosts []string, embedBase string) *Classifier {
	if imageHosts == nil {
		imageHosts = DefaultImageHosts
	}
	hosts := make(map[string]struct{}, len(imageHosts))
	for _, h := range imageHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts[h] = struct{}{}
		}
	}
	if embedBase == "" {
		embedBase = DefaultYouTubeEmbedBase
	}
	if !strings.HasSuffix(embedBase, "/") {
		embedBase += "/"
	}
	return &Classifier{imageHosts: hosts, embedBase: embedBase}
}

// CleanCandidate strips surrounding whitespace and any leading '@' characters.
// Applying it twice gives the same result as applying it once.
func CleanCandidate(s string) string {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return r == '@' || unicode.IsSpace(r)
	})
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// Classify never fails: anything that is not a recognisable image or video
// URL is PlainText.
func (c *Classifier) Classify(candidate string) Classification {
	s := CleanCandidate(candidate)
	if !schemeRegex.MatchString(s) || strings.ContainsAny(s, " \t\n") {
		return Classification{Kind: PlainText}
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return Classification{Kind: PlainText}
	}

	if v, ok := c.matchVideo(s, u); ok {
		return v
	}
	if c.isImage(s, u) {
		return Classification{Kind: Image, URL: s}
	}
	return Classification{Kind: PlainText}
}

func (c *Classifier) matchVideo(s string, u *url.URL) (Classification, bool) {
	m := youtubeRegex.FindStringSubmatch(s)
	if m == nil {
		return Classification{}, false
	}

	out := Classification{
		Kind:     Video,
		URL:      s,
		Platform: "youtube",
		VideoID:  m[1],
	}

	q := u.Query()
	if list := strings.TrimSpace(q.Get("list")); list != "" {
		out.PlaylistID = list
	}
	if idx, err := strconv.Atoi(q.Get("index")); err == nil && idx >= 0 {
		out.StartIndex = &idx
	}
	return out, true
}

func (c *Classifier) isImage(s string, u *url.URL) bool {
	// Everything before the query or fragment.
	bare := s
	if i := strings.IndexAny(bare, "?#"); i >= 0 {
		bare = bare[:i]
	}
	if imageExtRegex.MatchString(bare) {
		return true
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := c.imageHosts[host]; ok {
		return true
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "images?") || strings.Contains(lower, "q=tbn:") {
		return true
	}

	path := strings.ToLower(u.EscapedPath())
	for _, m := range pathMarkers {
		if strings.Contains(path, m) {
			return true
		}
	}
	for _, m := range hostMarkers {
		if strings.Contains(host, m) {
			return true
		}
	}

	return imagePathRegex.MatchString(u.Host + u.EscapedPath())
}

// EmbedURL builds the iframe source for a Video classification. The playlist
// form is preferred when a playlist id is known. Non-video input yields "".
func (c *Classifier) EmbedURL(v Classification) string {
	if v.Kind != Video || v.VideoID == "" {
		return ""
	}

	if v.PlaylistID != "" {
		q := url.Values{}
		q.Set("list", v.PlaylistID)
		q.Set("v", v.VideoID)
		if v.StartIndex != nil {
			q.Set("index", strconv.Itoa(*v.StartIndex))
		}
		return c.embedBase + "videoseries?" + encodeOrdered(q, "list", "v", "index")
	}
	return c.embedBase + url.PathEscape(v.VideoID)
}

// encodeOrdered is url.Values.Encode with a caller-chosen key order.
func encodeOrdered(q url.Values, keys ...string) string {
	var b strings.Builder
	for _, k := range keys {
		v := q.Get(k)
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

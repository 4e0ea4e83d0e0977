package instagram

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/pkg/errors"
)

// PostURLPattern is the accepted post URL shape. Clients embedding their own check must use
// this exact pattern so both sides agree.
const PostURLPattern = `^https?://(www\.)?instagram\.com/([A-Za-z0-9_.]+/)?(p|reel|tv)/[A-Za-z0-9_-]+/?(\?.*)?$`

var (
	postURLRegex = regexp.MustCompile(PostURLPattern)
	postPathRe   = regexp.MustCompile(`^/(?:([A-Za-z0-9_.]+)/)?(p|reel|tv)/([A-Za-z0-9_-]+)/?$`)
)

const invalidPostURLMessage = "Invalid Instagram URL. Supported formats: posts (/p/), reels (/reel/), and IGTV (/tv/)"

// IsPostURL reports whether raw is a post, reel or IGTV URL on instagram.com.
func IsPostURL(raw string) bool {
	return postURLRegex.MatchString(raw)
}

// ParsePostURL validates raw and splits it into its path components.
func ParsePostURL(raw string) (domain.PostReference, error) {
	if !IsPostURL(raw) {
		return domain.PostReference{}, errors.InvalidInput(invalidPostURLMessage)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return domain.PostReference{}, errors.InvalidInput(invalidPostURLMessage)
	}

	m := postPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return domain.PostReference{}, errors.InvalidInput(invalidPostURLMessage)
	}

	return domain.PostReference{
		URL:       raw,
		Username:  m[1],
		Kind:      m[2],
		Shortcode: m[3],
	}, nil
}

// StructuredDataURL appends the marker asking the origin for a JSON rendering of the post.
func StructuredDataURL(ref domain.PostReference) string {
	if strings.Contains(ref.URL, "?") {
		return ref.URL + "&__a=1"
	}
	return ref.URL + "?__a=1"
}

// DefaultMediaHosts are the origin and its CDN domains.
var DefaultMediaHosts = []string{"instagram.com", "cdninstagram.com", "fbcdn.net"}

// HostAllowList matches hosts by exact name or dot-suffix, never by substring.
type HostAllowList struct {
	suffixes []string
}

func NewHostAllowList(domains ...string) HostAllowList {
	if len(domains) == 0 {
		domains = DefaultMediaHosts
	}
	l := HostAllowList{}
	for _, d := range domains {
		d = strings.Trim(strings.ToLower(strings.TrimSpace(d)), ".")
		if d != "" {
			l.suffixes = append(l.suffixes, d)
		}
	}
	return l
}

// Allows reports whether host (port optional) is one of the domains or a subdomain of one.
func (l HostAllowList) Allows(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return false
	}
	for _, s := range l.suffixes {
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}

// AllowsURL parses raw and checks its scheme and host.
func (l HostAllowList) AllowsURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.User != nil {
		return nil, false
	}
	return u, l.Allows(u.Host)
}

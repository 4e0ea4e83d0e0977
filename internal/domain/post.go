package domain

// PostReference is a validated post URL. It lives for one request only.
type PostReference struct {
	URL       string // URL as submitted, query string included
	Username  string // optional profile segment, e.g. instagram.com/<user>/p/<id>
	Kind      string // "p", "reel" or "tv"
	Shortcode string
}

package tmdb

import "strings"

const (
	SizeW300     = "w300"
	SizeW500     = "w500"
	SizeOriginal = "original"

	PlaceholderImage = "/assets/placeholder.svg"
)

// ImageURLs builds poster and backdrop links under the TMDB image CDN.
type ImageURLs struct {
	BaseURL string
}

func NewImageURLs(baseURL string) ImageURLs {
	return ImageURLs{BaseURL: strings.TrimRight(baseURL, "/")}
}

// URL returns the link for path at size, or the placeholder when the movie has
// no image. Unknown sizes fall back to w300.
func (u ImageURLs) URL(path, size string) string {
	if path == "" {
		return PlaceholderImage
	}
	switch size {
	case SizeW300, SizeW500, SizeOriginal:
	default:
		size = SizeW300
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return u.BaseURL + "/" + size + path
}

package fetcher

import (
	"net/url"
	"regexp"
	"strings"

	"ewintr.nl/tubescribe/model"
)

var (
	youtubeURLRe = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube\.com|youtu\.?be)/.+$`)
	videoIDRe    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	fallbackIDRe = regexp.MustCompile(`(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?)/|\S*?[?&]v=)|youtu\.be/)([A-Za-z0-9_-]{11})`)
)

// ValidateURL does the loose check done before anything else. It does not
// guarantee that an ID can be extracted.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrEmptyURL
	}
	if !youtubeURLRe.MatchString(raw) {
		return ErrInvalidURL
	}

	return nil
}

// ExtractVideoID finds the 11 character video ID in a YouTube URL. URLs that
// do not parse, or that carry the ID outside the v parameter or short link
// path, are matched against the known URL shapes instead.
func ExtractVideoID(raw string) (model.YoutubeVideoID, bool) {
	raw = strings.TrimSpace(raw)
	if id, ok := structuredVideoID(raw); ok {
		return id, true
	}

	m := fallbackIDRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}

	return model.YoutubeVideoID(m[1]), true
}

func structuredVideoID(raw string) (model.YoutubeVideoID, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}

	var candidate string
	switch host := strings.ToLower(u.Hostname()); {
	case strings.Contains(host, "youtube.com"):
		candidate = u.Query().Get("v")
	case strings.Contains(host, "youtu.be"):
		candidate, _, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	}
	if !videoIDRe.MatchString(candidate) {
		return "", false
	}

	return model.YoutubeVideoID(candidate), true
}

// Reference validates raw and resolves it to a video reference.
func Reference(raw string) (model.VideoReference, error) {
	if err := ValidateURL(raw); err != nil {
		return model.VideoReference{}, err
	}
	id, ok := ExtractVideoID(raw)
	if !ok {
		return model.VideoReference{}, ErrNoVideoID
	}

	return model.VideoReference{ID: id, URL: strings.TrimSpace(raw)}, nil
}

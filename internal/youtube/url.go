package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var videoIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-character video ID out of the supported URL
// shapes: watch?v=, youtu.be/, shorts/, embed/, or a bare ID.
func ExtractVideoID(urlStr string) (string, error) {
	if videoIDRegex.MatchString(urlStr) {
		return urlStr, nil
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, urlStr)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if videoIDRegex.MatchString(id) {
			return id, nil
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if v := u.Query().Get("v"); videoIDRegex.MatchString(v) {
			return v, nil
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
				if videoIDRegex.MatchString(id) {
					return id, nil
				}
			}
		}
	}

	return "", fmt.Errorf("%w: no video ID in %q", ErrInvalidURL, urlStr)
}

// ExtractPlaylistID pulls the playlist ID from a playlist or watch URL.
func ExtractPlaylistID(urlStr string) (string, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, urlStr)
	}
	if list := u.Query().Get("list"); list != "" {
		return list, nil
	}
	return "", fmt.Errorf("%w: no playlist ID in %q", ErrInvalidURL, urlStr)
}

// IsPlaylistURL reports whether the URL addresses a playlist rather than a
// single video. A watch URL that merely carries a list parameter still
// counts as a single video.
func IsPlaylistURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return strings.Contains(u.Path, "/playlist") && u.Query().Get("list") != ""
}

// WatchURL builds a canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

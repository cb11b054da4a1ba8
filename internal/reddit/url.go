package reddit

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseProfileURL extracts the username from a Reddit user profile URL.
// Accepts the usual variants (www/old/new subdomains, trailing slash,
// scheme-less input); anything that is not a /user/ profile is rejected.
func ParseProfileURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "reddit.com/user/") {
		return "", fmt.Errorf("provide a valid Reddit user profile URL (e.g. https://www.reddit.com/user/kojied/)")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid profile URL: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg != "user" && seg != "u" {
			continue
		}
		if i+1 >= len(segments) || segments[i+1] == "" {
			break
		}
		return segments[i+1], nil
	}

	return "", fmt.Errorf("no username in profile URL %q", raw)
}

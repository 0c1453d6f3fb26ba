package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Video identifies a YouTube video
type Video struct {
	ID  string
	URL string
}

// WatchURL builds the canonical watch URL for the video
func (v *Video) WatchURL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.ID)
}

// Order matters: the query/path pattern is tried first, then embed, then short links.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11}).*`),
	regexp.MustCompile(`(?:embed/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([0-9A-Za-z_-]{11})`),
}

// ExtractVideoID returns the 11-character video ID embedded in url
func ExtractVideoID(url string) (string, error) {
	for _, pattern := range videoIDPatterns {
		if matches := pattern.FindStringSubmatch(url); len(matches) > 1 {
			return matches[1], nil
		}
	}
	return "", ErrInvalidURL
}

// ParseVideoInput extracts a Video from a URL string
func ParseVideoInput(input string) (*Video, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrMissingURL
	}

	id, err := ExtractVideoID(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, input)
	}

	return &Video{
		ID:  id,
		URL: input,
	}, nil
}

package cli

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/devbush/ytlingo/internal/domain"
)

var bareVideoID = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// parseVideo accepts a YouTube URL or a bare 11-character video ID
func parseVideo(input string) (*domain.Video, error) {
	input = strings.TrimSpace(input)
	if bareVideoID.MatchString(input) {
		v := &domain.Video{ID: input}
		v.URL = v.WatchURL()
		return v, nil
	}
	return domain.ParseVideoInput(input)
}

// ParseInputFile reads a file containing URLs or IDs, one per line.
// Blank lines, lines starting with # and unparseable lines are skipped.
func ParseInputFile(path string) ([]*domain.Video, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var videos []*domain.Video
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		video, err := parseVideo(line)
		if err != nil {
			continue
		}
		videos = append(videos, video)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return videos, nil
}

// CollectInputs combines CLI arguments and file input, deduplicating by
// video ID. Args come first, then file entries, in order of first appearance.
func CollectInputs(args []string, filePath string) ([]*domain.Video, error) {
	var candidates []*domain.Video
	for _, arg := range args {
		if video, err := parseVideo(arg); err == nil {
			candidates = append(candidates, video)
		}
	}

	if filePath != "" {
		fileVideos, err := ParseInputFile(filePath)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, fileVideos...)
	}

	seen := make(map[string]bool)
	var videos []*domain.Video
	for _, v := range candidates {
		if !seen[v.ID] {
			seen[v.ID] = true
			videos = append(videos, v)
		}
	}
	return videos, nil
}

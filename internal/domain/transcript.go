package domain

import (
	"fmt"
	"strings"
	"time"
)

// CaptionCue is one caption record as published by YouTube
type CaptionCue struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// WordTiming is the estimated time span of a single word within a cue
type WordTiming struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment represents a caption cue with per-word timings
type Segment struct {
	Start float64      `json:"start"`
	End   float64      `json:"end"`
	Text  string       `json:"text"`
	Words []WordTiming `json:"words"`
}

// Transcript represents the synthesized transcript of a video
type Transcript struct {
	VideoID   string    `json:"video_id"`
	Language  string    `json:"language"`
	Segments  []Segment `json:"segments"`
	FetchedAt time.Time `json:"fetched_at"`
}

// WordCount returns the total number of timed words across all segments
func (t *Transcript) WordCount() int {
	n := 0
	for _, seg := range t.Segments {
		n += len(seg.Words)
	}
	return n
}

// ToText returns plain text concatenation of all segments
func (t *Transcript) ToText() string {
	var parts []string
	for _, seg := range t.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// ToSRT returns the transcript in SRT subtitle format
func (t *Transcript) ToSRT() string {
	var sb strings.Builder

	for i, seg := range t.Segments {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTime(seg.Start), formatSRTTime(seg.End)))
		sb.WriteString(strings.TrimSpace(seg.Text))
		sb.WriteString("\n\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// formatSRTTime converts seconds to SRT timestamp format (HH:MM:SS,mmm)
func formatSRTTime(seconds float64) string {
	total := int64(seconds*1000 + 0.5)
	hours := total / 3_600_000
	minutes := (total % 3_600_000) / 60_000
	secs := (total % 60_000) / 1000
	millis := total % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

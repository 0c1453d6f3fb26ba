package youtube

import (
	"encoding/xml"
	"errors"
	"html"
	"strings"

	"github.com/devbush/ytlingo/internal/domain"
	"github.com/kkdai/youtube/v2"
)

// selectTrack picks the caption track for language. An exact language code
// wins over a base-language match (en vs en-US), and manual tracks win over
// auto-generated ones at the same level.
func selectTrack(tracks []youtube.CaptionTrack, language string) *youtube.CaptionTrack {
	want := strings.ToLower(strings.TrimSpace(language))
	if want == "" {
		return nil
	}

	var best *youtube.CaptionTrack
	bestScore := 0
	for i := range tracks {
		score := trackScore(tracks[i], want)
		if score > bestScore {
			best, bestScore = &tracks[i], score
		}
	}
	return best
}

func trackScore(track youtube.CaptionTrack, want string) int {
	code := strings.ToLower(track.LanguageCode)

	score := 0
	switch {
	case code == want:
		score = 4
	case baseLanguage(code) == baseLanguage(want):
		score = 2
	default:
		return 0
	}
	if track.Kind != "asr" {
		score++
	}
	return score
}

func baseLanguage(code string) string {
	base, _, _ := strings.Cut(code, "-")
	return base
}

// legacy timedtext: seconds as decimals
type legacyTranscript struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Text  string  `xml:",chardata"`
	} `xml:"text"`
}

// srv3 timedtext: integer milliseconds, text optionally split into <s> runs
type srv3Transcript struct {
	XMLName    xml.Name `xml:"timedtext"`
	Paragraphs []struct {
		T        int64  `xml:"t,attr"`
		D        int64  `xml:"d,attr"`
		Text     string `xml:",chardata"`
		Segments []struct {
			Text string `xml:",chardata"`
		} `xml:"s"`
	} `xml:"body>p"`
}

var errUnknownCaptionFormat = errors.New("unrecognized caption format")

// parseTimedText decodes either timedtext flavor into cues. Entities are
// decoded twice since YouTube escapes text inside the XML escaping.
// Blank cues are dropped.
func parseTimedText(data []byte) ([]domain.CaptionCue, error) {
	var legacy legacyTranscript
	if err := xml.Unmarshal(data, &legacy); err == nil {
		cues := make([]domain.CaptionCue, 0, len(legacy.Texts))
		for _, t := range legacy.Texts {
			cues = appendCue(cues, t.Text, t.Start, t.Dur)
		}
		return cues, nil
	}

	var srv3 srv3Transcript
	if err := xml.Unmarshal(data, &srv3); err == nil {
		cues := make([]domain.CaptionCue, 0, len(srv3.Paragraphs))
		for _, p := range srv3.Paragraphs {
			text := p.Text
			if len(p.Segments) > 0 {
				var sb strings.Builder
				for _, s := range p.Segments {
					sb.WriteString(s.Text)
				}
				text = sb.String()
			}
			cues = appendCue(cues, text, float64(p.T)/1000, float64(p.D)/1000)
		}
		return cues, nil
	}

	return nil, errUnknownCaptionFormat
}

func appendCue(cues []domain.CaptionCue, raw string, start, dur float64) []domain.CaptionCue {
	text := html.UnescapeString(raw)
	if strings.TrimSpace(text) == "" {
		return cues
	}
	return append(cues, domain.CaptionCue{
		Text:     text,
		Start:    start,
		Duration: dur,
	})
}

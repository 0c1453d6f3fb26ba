package domain

import (
	"strconv"
	"strings"
)

// Round2 rounds the exact binary value of x to two decimal places. Exact
// ties go to the even digit, so 0.125 becomes 0.12 and 2.675 (stored just
// below the tie) becomes 2.67.
func Round2(x float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	return r
}

// Synthesize converts caption cues into segments with estimated word timings.
//
// Each cue's duration is split evenly across its whitespace-delimited words.
// Emitted values are rounded to two decimals, but the running clock is not,
// so rounding error does not compound from one word to the next. Cues are
// handled independently; nothing is carried across cue boundaries.
func Synthesize(cues []CaptionCue) []Segment {
	segments := make([]Segment, 0, len(cues))
	for _, cue := range cues {
		segments = append(segments, synthesizeCue(cue))
	}
	return segments
}

func synthesizeCue(cue CaptionCue) Segment {
	words := strings.Fields(cue.Text)

	var wordDuration float64
	if len(words) > 0 {
		wordDuration = cue.Duration / float64(len(words))
	}

	timings := make([]WordTiming, 0, len(words))
	clock := cue.Start
	for _, word := range words {
		timings = append(timings, WordTiming{
			Word:  word,
			Start: Round2(clock),
			End:   Round2(clock + wordDuration),
		})
		clock += wordDuration
	}

	return Segment{
		Start: Round2(cue.Start),
		End:   Round2(cue.Start + cue.Duration),
		Text:  cue.Text,
		Words: timings,
	}
}

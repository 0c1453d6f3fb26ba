package cli

import (
	"github.com/devbush/ytlingo/internal/application"
	"github.com/devbush/ytlingo/internal/domain"
)

// videoDocument is the JSON written by fetch --format json and by batch
type videoDocument struct {
	VideoID    string             `json:"video_id"`
	Language   string             `json:"language"`
	JobID      string             `json:"job_id,omitempty"`
	AudioURL   string             `json:"audio_url,omitempty"`
	AudioFile  string             `json:"audio_file,omitempty"`
	Transcript *domain.Transcript `json:"transcript"`
}

func newVideoDocument(transcript *domain.Transcript, result *application.ProcessResult) *videoDocument {
	doc := &videoDocument{
		VideoID:    transcript.VideoID,
		Language:   transcript.Language,
		Transcript: transcript,
	}
	if result != nil {
		doc.JobID = result.JobID
		doc.AudioURL = result.AudioURL
	}
	return doc
}

// batchSummary aggregates results from a batch run
type batchSummary struct {
	Total     int
	Succeeded int
	Failed    int
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devbush/ytlingo/internal/application"
	"github.com/devbush/ytlingo/internal/config"
	"github.com/devbush/ytlingo/internal/domain"
)

func testTranscript() *domain.Transcript {
	return &domain.Transcript{
		VideoID:  "dQw4w9WgXcQ",
		Language: "en",
		Segments: domain.Synthesize([]domain.CaptionCue{
			{Text: "Hello world", Start: 0, Duration: 2},
			{Text: "again", Start: 2, Duration: 1},
		}),
	}
}

func TestFormatDocument(t *testing.T) {
	doc := newVideoDocument(testTranscript(), &application.ProcessResult{
		JobID:    "3f2504e0-4f89-41d3-9a0c-0305e82c3301",
		AudioURL: "/audio/3f2504e0-4f89-41d3-9a0c-0305e82c3301",
	})

	t.Run("text", func(t *testing.T) {
		out, err := formatDocument(doc, "text")
		if err != nil {
			t.Fatalf("formatDocument() error = %v", err)
		}
		if !strings.Contains(out, "Hello world") || !strings.Contains(out, "again") {
			t.Errorf("text output = %q", out)
		}
	})

	t.Run("srt", func(t *testing.T) {
		out, err := formatDocument(doc, "srt")
		if err != nil {
			t.Fatalf("formatDocument() error = %v", err)
		}
		if !strings.Contains(out, "00:00:00,000 --> 00:00:02,000") {
			t.Errorf("srt output missing first cue timing:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := formatDocument(doc, "json")
		if err != nil {
			t.Fatalf("formatDocument() error = %v", err)
		}
		var got struct {
			VideoID    string `json:"video_id"`
			JobID      string `json:"job_id"`
			AudioURL   string `json:"audio_url"`
			Transcript struct {
				Segments []domain.Segment `json:"segments"`
			} `json:"transcript"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if got.VideoID != "dQw4w9WgXcQ" || got.JobID == "" || got.AudioURL == "" {
			t.Errorf("json header = %+v", got)
		}
		if len(got.Transcript.Segments) != 2 || len(got.Transcript.Segments[0].Words) != 2 {
			t.Errorf("json segments = %+v", got.Transcript.Segments)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := formatDocument(doc, "xml"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestNewVideoDocument_TranscriptOnly(t *testing.T) {
	doc := newVideoDocument(testTranscript(), nil)
	if doc.JobID != "" || doc.AudioURL != "" {
		t.Errorf("transcript-only document has audio fields: %+v", doc)
	}

	data, _ := json.Marshal(doc)
	if strings.Contains(string(data), "job_id") {
		t.Errorf("empty job_id should be omitted: %s", data)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"message":"shown"`) {
		t.Errorf("log output = %q", buf.String())
	}

	if _, err := newLogger(config.LogConfig{Level: "loud"}, &buf); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestCopyTo(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "nested", "out.mp3")
	if err := copyTo(strings.NewReader("ID3 data"), dst); err != nil {
		t.Fatalf("copyTo() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "ID3 data" {
		t.Errorf("copied %q", data)
	}
}

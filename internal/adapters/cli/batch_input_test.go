package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devbush/ytlingo/internal/domain"
)

func videoIDs(videos []*domain.Video) []string {
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	return ids
}

func writeInputFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestParseVideo(t *testing.T) {
	tests := []struct {
		input   string
		wantID  string
		wantURL string
		wantErr bool
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", false},
		{"  9bZkp7q19f0  ", "9bZkp7q19f0", "https://www.youtube.com/watch?v=9bZkp7q19f0", false},
		{"https://youtu.be/kJQP7kiw5Fk", "kJQP7kiw5Fk", "https://youtu.be/kJQP7kiw5Fk", false},
		{"https://www.youtube.com/watch?v=OPf0YbXqDm0&t=10", "OPf0YbXqDm0", "https://www.youtube.com/watch?v=OPf0YbXqDm0&t=10", false},
		{"short", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := parseVideo(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseVideo(%q) expected error, got %+v", tt.input, v)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVideo(%q) unexpected error: %v", tt.input, err)
			}
			if v.ID != tt.wantID || v.URL != tt.wantURL {
				t.Errorf("parseVideo(%q) = {%s %s}, want {%s %s}", tt.input, v.ID, v.URL, tt.wantID, tt.wantURL)
			}
		})
	}
}

func TestParseInputFile(t *testing.T) {
	t.Run("parses file with comments, blank lines, URLs and IDs", func(t *testing.T) {
		path := writeInputFile(t, `# This is a comment
https://www.youtube.com/watch?v=dQw4w9WgXcQ
https://youtu.be/9bZkp7q19f0

# Another comment
kJQP7kiw5Fk
not a video
OPf0YbXqDm0
`)

		videos, err := ParseInputFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{"dQw4w9WgXcQ", "9bZkp7q19f0", "kJQP7kiw5Fk", "OPf0YbXqDm0"}
		ids := videoIDs(videos)
		if len(ids) != len(expected) {
			t.Fatalf("expected %d IDs, got %d: %v", len(expected), len(ids), ids)
		}
		for i, id := range ids {
			if id != expected[i] {
				t.Errorf("expected ID[%d] = %q, got %q", i, expected[i], id)
			}
		}
	})

	t.Run("returns error for nonexistent file", func(t *testing.T) {
		_, err := ParseInputFile("/nonexistent/path/file.txt")
		if err == nil {
			t.Error("expected error for nonexistent file, got nil")
		}
	})
}

func TestCollectInputs(t *testing.T) {
	t.Run("combines args and file with deduplication", func(t *testing.T) {
		path := writeInputFile(t, `dQw4w9WgXcQ
https://www.youtube.com/watch?v=9bZkp7q19f0
kJQP7kiw5Fk
`)

		// dQw4w9WgXcQ appears in both, once as a URL
		args := []string{"https://youtu.be/dQw4w9WgXcQ", "OPf0YbXqDm0"}

		videos, err := CollectInputs(args, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []string{"dQw4w9WgXcQ", "OPf0YbXqDm0", "9bZkp7q19f0", "kJQP7kiw5Fk"}
		ids := videoIDs(videos)
		if len(ids) != len(expected) {
			t.Fatalf("expected %d IDs, got %d: %v", len(expected), len(ids), ids)
		}
		for i, id := range ids {
			if id != expected[i] {
				t.Errorf("expected ID[%d] = %q, got %q", i, expected[i], id)
			}
		}
		if videos[0].URL != "https://youtu.be/dQw4w9WgXcQ" {
			t.Errorf("first occurrence should win, got URL %q", videos[0].URL)
		}
	})

	t.Run("works with args only when filePath is empty", func(t *testing.T) {
		videos, err := CollectInputs([]string{"dQw4w9WgXcQ", "bogus"}, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ids := videoIDs(videos); len(ids) != 1 || ids[0] != "dQw4w9WgXcQ" {
			t.Errorf("got %v, want [dQw4w9WgXcQ]", ids)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := CollectInputs(nil, "/nonexistent/input.txt"); err == nil {
			t.Error("expected error")
		}
	})
}

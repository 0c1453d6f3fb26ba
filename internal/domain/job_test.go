package domain

import "testing"

func TestNewJobID(t *testing.T) {
	a := NewJobID()
	b := NewJobID()

	if a == b {
		t.Errorf("NewJobID() returned duplicate %q", a)
	}
	if !ValidJobID(a) {
		t.Errorf("NewJobID() = %q is not a valid job ID", a)
	}
	if len(a) != 36 {
		t.Errorf("NewJobID() length = %d, want 36", len(a))
	}
}

func TestValidJobID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"3f2504e0-4f89-41d3-9a0c-0305e82c3301", true},
		{"3F2504E0-4F89-41D3-9A0C-0305E82C3301", true},
		{"deadbeef", true},
		{"", false},
		{"../etc/passwd", false},
		{"..", false},
		{"abc/def", false},
		{`abc\def`, false},
		{"abc.mp3", false},
		{"xyz", false},
		{"3f2504e0 4f89", false},
		{"3f2504e0%2F", false},
		{"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef0", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidJobID(tt.input); got != tt.want {
				t.Errorf("ValidJobID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("dQw4w9WgXcQ")

	if job.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %q, want dQw4w9WgXcQ", job.VideoID)
	}
	if !ValidJobID(job.ID) {
		t.Errorf("ID = %q is not valid", job.ID)
	}
	if job.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if got := AudioURL(job.ID); got != "/audio/"+job.ID {
		t.Errorf("AudioURL() = %q", got)
	}
}

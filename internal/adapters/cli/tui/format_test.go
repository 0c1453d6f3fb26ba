package tui

import "testing"

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{892, "892"},
		{999, "999"},
		{1000, "1.0K"},
		{1234, "1.2K"},
		{12345, "12.3K"},
		{1000000, "1.0M"},
		{1500000, "1.5M"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatCount(tt.input)
			if result != tt.expected {
				t.Errorf("FormatCount(%d) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatSize(tt.input); got != tt.expected {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0:00"},
		{-3, "0:00"},
		{9.4, "0:09"},
		{65, "1:05"},
		{3599.6, "1:00:00"},
		{3725, "1:02:05"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatTimestamp(tt.input); got != tt.expected {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

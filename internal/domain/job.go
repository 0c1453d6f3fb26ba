package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// maxJobIDLen bounds job IDs accepted from clients; a UUID is 36 chars.
const maxJobIDLen = 64

// Job is one processing request's audio artifact
type Job struct {
	ID        string
	VideoID   string
	CreatedAt time.Time
}

// NewJob creates a job with a fresh random ID
func NewJob(videoID string) *Job {
	return &Job{
		ID:        NewJobID(),
		VideoID:   videoID,
		CreatedAt: time.Now(),
	}
}

// NewJobID returns a fresh random UUID string
func NewJobID() string {
	return uuid.NewString()
}

// ValidJobID reports whether id is safe to use as a storage key.
// Only hex digits and hyphens are accepted.
func ValidJobID(id string) bool {
	if id == "" || len(id) > maxJobIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// AudioURL returns the relative URL the audio for jobID is served from
func AudioURL(jobID string) string {
	return fmt.Sprintf("/audio/%s", jobID)
}

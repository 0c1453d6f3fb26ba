package domain

import "strings"

// Credentials are the session tokens YouTube may demand before it serves an
// audio stream. They are opaque to this service.
type Credentials struct {
	VisitorData string `json:"visitorData,omitempty" yaml:"visitor_data,omitempty"`
	POToken     string `json:"po_token,omitempty" yaml:"po_token,omitempty"`
}

// Empty reports whether neither token is set
func (c Credentials) Empty() bool {
	return strings.TrimSpace(c.VisitorData) == "" && strings.TrimSpace(c.POToken) == ""
}

// Complete reports whether both tokens are set
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.VisitorData) != "" && strings.TrimSpace(c.POToken) != ""
}

package model

import (
	"strings"
	"time"
)

// Video represents one uploaded video and its metadata.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Views       int64     `json:"views"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// ParseTags splits a comma-separated tag string into a tag list.
// Entries are whitespace-trimmed and empty entries dropped; duplicates and
// order are preserved as given. An empty input yields an empty list.
func ParseTags(s string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Matches reports whether q occurs as a case-insensitive substring of the
// title, the description, or at least one tag. An empty q matches everything.
func (v *Video) Matches(q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(v.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(v.Description), q) {
		return true
	}
	for _, tag := range v.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

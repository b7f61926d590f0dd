package resumes

import (
	"encoding/json"
	"strings"
)

// ParseContent decodes the resumeData form field into a canonical Content.
// Clients send either a JSON object or a double-encoded JSON string; both are
// accepted and dispatched to one decode path. The result is a fresh value with
// no aliasing of caller data, personal_info always present, and no way to
// carry id or ownerId (Content has no such fields).
func ParseContent(raw string) (Content, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Content{}, ErrInvalidData
	}

	// Double-encoded variant: a JSON string whose value is the JSON object.
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			return Content{}, ErrInvalidData
		}
		trimmed = strings.TrimSpace(inner)
	}

	var content Content
	if err := json.Unmarshal([]byte(trimmed), &content); err != nil {
		return Content{}, ErrInvalidData
	}
	return content, nil
}

// RemoveBackgroundRequested reports whether the removeBackground form value
// asks for background removal. Only the literals "yes" and "true" count.
func RemoveBackgroundRequested(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "yes", "true":
		return true
	default:
		return false
	}
}

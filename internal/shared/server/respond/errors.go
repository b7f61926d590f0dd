package respond

import (
	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/shared/telemetry"
)

// ErrorBody is the wire shape for every failure: a human-readable message plus an
// optional detail string (only populated for upload failures).
type ErrorBody struct {
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

// Error sends an error response and logs it server-side with request context.
func Error(c *gin.Context, status int, message string) {
	ErrorWithDetail(c, status, message, "")
}

// ErrorWithDetail sends an error response carrying an extra detail string.
func ErrorWithDetail(c *gin.Context, status int, message, detail string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if detail != "" {
		fields["detail"] = detail
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorBody{Message: message, Detail: detail})
}

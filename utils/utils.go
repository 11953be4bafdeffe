package utils

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const genericServerError = "An unexpected error occurred. Please try again later."

// SendJSONError sends a standardized {"error": ...} response and logs the internal error.
// For 5xx errors an empty publicMsg, or one equal to internalError, is replaced with a generic message.
// For 4xx errors, the publicMsg is shown to the client, and internalError (if provided) is logged.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error, details ...string) {
	errorDetails := ""
	if len(details) > 0 {
		errorDetails = details[0]
	}

	if internalError != nil {
		log.Printf("ERROR: Handler error: status_code=%d, public_message='%s', internal_error='%v', details='%s', path='%s'",
			statusCode, publicMsg, internalError, errorDetails, c.Request.URL.Path)
	} else {
		log.Printf("INFO: Handler response: status_code=%d, public_message='%s', details='%s', path='%s'",
			statusCode, publicMsg, errorDetails, c.Request.URL.Path)
	}

	response := gin.H{"error": publicMsg}
	if statusCode >= http.StatusInternalServerError {
		if publicMsg == "" {
			response["error"] = genericServerError
		} else if internalError != nil && publicMsg == internalError.Error() {
			response["error"] = genericServerError
			log.Printf("WARN: For 5xx error, public message was same as internal error. Replaced with generic message for client. Original internal error: %v", internalError)
		}
	} else if errorDetails != "" {
		response["details"] = errorDetails
	}

	c.AbortWithStatusJSON(statusCode, response)
}

// FormatDate formats t as a calendar date, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// FormatTime 格式化时间
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

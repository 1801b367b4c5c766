package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/logging"
	"github.com/mrlokans/librarian/internal/validation"
)

// --- Response Types ---

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ViewResponse is the JSON form of a rendered view.
type ViewResponse struct {
	View string `json:"view"`
	Data any    `json:"data"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, resource+" not found")
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	logging.FromContext(c.Request.Context()).Error("internal error", "context", context, "error", err)
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// respondError sends an error page when templates are loaded, JSON otherwise.
func respondError(c *gin.Context, status int, message string) {
	requestID := logging.RequestID(c.Request.Context())
	if hasTemplates(c) {
		c.HTML(status, "error.html", gin.H{"title": http.StatusText(status), "message": message, "request_id": requestID})
		return
	}
	c.JSON(status, ErrorResponse{Error: message, RequestID: requestID})
}

// --- Request Parsing ---

// formInput returns the submitted form fields. Repeated fields (such as the
// genre checkboxes) keep every value.
func formInput(c *gin.Context) (validation.Input, bool) {
	if err := c.Request.ParseForm(); err != nil {
		respondBadRequest(c, "invalid form body")
		return nil, false
	}
	return validation.Input(c.Request.PostForm), true
}

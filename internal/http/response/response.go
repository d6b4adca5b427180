package response

import (
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// WantsJSON reports whether the caller prefers JSON over the HTML pages,
// e.g. fetch() calls carrying Accept: application/json.
func WantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// AbortError ends the request with a JSON envelope or a plain text body,
// whichever the caller accepts.
func AbortError(c *gin.Context, status int, code string, err error) {
	if WantsJSON(c) {
		RespondError(c, status, code, err)
	} else {
		msg := code
		if err != nil {
			msg = err.Error()
		}
		c.String(status, msg)
	}
	c.Abort()
}

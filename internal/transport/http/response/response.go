// Package response defines the error contract of the API: every failure is a
// JSON body of the form {"error": "..."} with a real 4xx/5xx status.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is a typed handler error carrying the HTTP status to answer with.
type Error struct {
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func BadRequest(msg string) *Error   { return &Error{Status: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) *Error { return &Error{Status: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) *Error    { return &Error{Status: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) *Error     { return &Error{Status: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Fail writes the JSON error body for err. Anything that is not a *Error is
// treated as an internal storage error.
func Fail(c *gin.Context, err error) {
	if e, ok := err.(*Error); ok {
		c.AbortWithStatusJSON(e.Status, gin.H{"error": e.Error()})
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
}

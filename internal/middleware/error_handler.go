package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler turns errors attached to the gin context into a JSON
// response with a status derived from the error type.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		statusCode := http.StatusInternalServerError
		switch err.(type) {
		case *ValidationError:
			statusCode = http.StatusBadRequest
		case *NotFoundError:
			statusCode = http.StatusNotFound
		}

		c.JSON(statusCode, ErrorResponse{Error: err.Error()})
	}
}

// ValidationError maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError maps to 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

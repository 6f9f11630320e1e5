// Package response writes JSON replies for gin handlers and maps domain
// errors to status codes.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/emanuelaromano/book-manager/internal/errors"
	"github.com/emanuelaromano/book-manager/internal/logging"
)

// ErrorBody is the shape of every error reply.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// OKBody acknowledges operations that return nothing else.
type OKBody struct {
	OK bool `json:"ok"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Ack sends {"ok": true}.
func Ack(c *gin.Context) {
	c.JSON(http.StatusOK, OKBody{OK: true})
}

// Error writes err as JSON. Domain errors keep their message; anything else
// is logged and reported as a bare 500.
func Error(c *gin.Context, err error) {
	c.JSON(status(c, err), body(err))
}

// Abort is Error for middleware: later handlers do not run.
func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(status(c, err), body(err))
}

func status(c *gin.Context, err error) int {
	code := domainerrors.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
		logging.FromContext(c).WithError(err).Error("internal error")
	}
	return code
}

func body(err error) ErrorBody {
	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) || domainErr.HTTPStatus() >= http.StatusInternalServerError {
		return ErrorBody{Message: domainerrors.ErrInternal.Message, Code: string(domainerrors.CodeInternal)}
	}
	return ErrorBody{Message: domainErr.Message, Code: string(domainErr.Code), Details: domainErr.Details}
}

package http

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emanuelaromano/book-manager/internal/auth"
	domainerrors "github.com/emanuelaromano/book-manager/internal/errors"
	"github.com/emanuelaromano/book-manager/internal/http/response"
)

var errInvalidBody = domainerrors.Validation("Invalid JSON body")

// GetUserID extracts the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// parseIDParam extracts an unsigned integer ID from URL parameters. An ID
// that does not parse cannot name any book, so it is answered with 404.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		response.Error(c, domainerrors.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body into dst and answers 400 when it is
// not valid JSON. An empty body decodes as an empty object.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, errInvalidBody)
		return false
	}
	return true
}

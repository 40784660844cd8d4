// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const TotalCountHeader = "X-Total-Count"

// SetTotalCount publishes the filtered total out of band so list bodies stay
// bare arrays.
func SetTotalCount(c *gin.Context, total int64) {
	c.Header(TotalCountHeader, strconv.FormatInt(total, 10))
}

// ListResponse writes a bare array with its total count header.
func ListResponse(c *gin.Context, data interface{}, total int64) {
	SetTotalCount(c, total)
	SuccessResponse(c, data)
}

package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/happynation/wellbeing-service/internal/imagehost"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := c.Param(param)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// ParseUintIDParam writes a 400 and returns 0 when the param is not a
// positive integer.
func ParseUintIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(param)), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID must be a positive integer",
		})
		return 0
	}
	return uint(id)
}

func ParseIntIDParam(c *gin.Context, param string) int {
	return int(ParseUintIDParam(c, param))
}

// parsePaging reads limit/offset query params, clamping bad values.
func parsePaging(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// titleCase turns "weekly" or "WEEKLY" into "Weekly".
func titleCase(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	return strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:])
}

// readImage pulls the multipart "image" field into an imagehost.Image. The
// caller must close the returned file. A 400 is written when it is missing.
func readImage(c *gin.Context) (imagehost.Image, multipart.File, bool) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Image file is required",
			Details: err.Error(),
		})
		return imagehost.Image{}, nil, false
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to open uploaded file",
			Details: err.Error(),
		})
		return imagehost.Image{}, nil, false
	}

	return imagehost.Image{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, file, true
}

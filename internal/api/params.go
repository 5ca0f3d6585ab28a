package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

var errMissingParam = errors.New("missing parameter")

// listParams carries the uniform pagination contract: limit defaults to
// 10 and is clamped to 100, offset defaults to 0.
type listParams struct {
	Limit  int
	Offset int
}

func parseListParams(c *gin.Context) listParams {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}

	return listParams{Limit: limit, Offset: offset}
}

// uintQuery parses a required positive integer query parameter.
func uintQuery(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, errMissingParam
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// uintParam parses a positive integer path parameter.
func uintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// trimPtr trims a request string pointer in place, mapping pointers to
// all-whitespace strings onto the trimmed value.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

// validEnum reports membership in a fixed value set.
func validEnum(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// likePattern builds the case-insensitive substring match fragment used
// by list search filters.
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

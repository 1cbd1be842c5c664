package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tasksource/internal/repositories"
)

// parseCount reads ?count=, falling back to def and capping at max.
func parseCount(c *gin.Context, def, max int) (int, error) {
	raw := c.Query("count")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("count must not be negative")
	}
	if n > max {
		return 0, fmt.Errorf("count must not exceed %d", max)
	}
	return n, nil
}

func parseSeed(c *gin.Context) (*uint64, error) {
	raw := c.Query("seed")
	if raw == "" {
		return nil, nil
	}
	s, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q", raw)
	}
	return &s, nil
}

// parseAssign reads ?assign= with strconv.ParseBool; absent means false.
func parseAssign(c *gin.Context) (bool, error) {
	raw := c.Query("assign")
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid assign %q", raw)
	}
	return b, nil
}

// readErrorStatus maps a reader failure to an HTTP status and a short kind label.
func readErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, repositories.ErrConnection):
		return http.StatusServiceUnavailable, "connection"
	case errors.Is(err, repositories.ErrQuery):
		return http.StatusBadGateway, "query"
	case errors.Is(err, repositories.ErrMapping):
		return http.StatusBadGateway, "mapping"
	case errors.Is(err, repositories.ErrConfiguration):
		return http.StatusInternalServerError, "configuration"
	}
	return http.StatusInternalServerError, "internal"
}

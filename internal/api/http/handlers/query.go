package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/pagination"
)

// parsePage reads page/limit query parameters, applying defaults and the
// configured ceiling.
func parsePage(c *fiber.Ctx, limits config.PaginationConfig) (page, limit int) {
	page = parseInt(c.Query("page"), 1)
	limit = parseInt(c.Query("limit"), limits.DefaultLimit)
	return pagination.Clamp(page, limit, limits.MaxLimit)
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}

func parseTime(raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

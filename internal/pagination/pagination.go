// Package pagination normalizes page/limit/sort request parameters and builds
// the standard page envelope metadata carried by every list response.
package pagination

import "strings"

// DefaultLimit applies when a list request omits the limit parameter.
const DefaultLimit = 10

// Meta is the pagination block of a page envelope.
type Meta struct {
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalResults int64 `json:"totalResults"`
	TotalPages   int64 `json:"totalPages"`
}

// NewMeta computes envelope metadata for a page. TotalPages is
// ceil(totalResults / limit); an empty result set still reports the true
// total, so page requests beyond the last page stay honest.
func NewMeta(page, limit int, totalResults int64) Meta {
	if limit < 1 {
		limit = 1
	}
	totalPages := totalResults / int64(limit)
	if totalResults%int64(limit) != 0 {
		totalPages++
	}
	return Meta{
		Page:         page,
		Limit:        limit,
		TotalResults: totalResults,
		TotalPages:   totalPages,
	}
}

// Clamp normalizes page and limit: both at least 1, limit capped at maxLimit.
func Clamp(page, limit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// Offset converts a clamped page/limit pair into a row offset.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// SortField is one parsed term of a sort specification.
type SortField struct {
	Field string
	Desc  bool
}

// ParseSort parses a comma-separated sort specification where a leading "-"
// marks descending order, e.g. "-createdAt,priority". Fields not present in
// the allowed set are dropped rather than rejected.
func ParseSort(spec string, allowed map[string]string) []SortField {
	if strings.TrimSpace(spec) == "" {
		return nil
	}
	var fields []SortField
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		column, ok := allowed[name]
		if !ok {
			continue
		}
		fields = append(fields, SortField{Field: column, Desc: desc})
	}
	return fields
}

// OrderBy renders parsed sort fields as a SQL ORDER BY expression, falling
// back to the given default when nothing usable was specified. Column names
// come from the caller's whitelist, never from raw request input.
func OrderBy(fields []SortField, fallback string) string {
	if len(fields) == 0 {
		return fallback
	}
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		terms = append(terms, f.Field+" "+dir)
	}
	return strings.Join(terms, ", ")
}

package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// MaxPageSize bounds the number of rows any list endpoint can return.
const MaxPageSize = 1000

// Pagination holds pagination parameters.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset (or page) query params with sane
// defaults. Limit is clamped into [1, MaxPageSize]; offset never goes
// negative.
func ParsePagination(c *fiber.Ctx) Pagination {
	limit := ClampLimit(parseInt(c.Query("limit", "20"), 20))

	if raw := c.Query("offset"); raw != "" {
		offset := ClampOffset(parseInt(raw, 0))
		return Pagination{
			Page:   offset/limit + 1,
			Limit:  limit,
			Offset: offset,
		}
	}

	page := parseInt(c.Query("page", "1"), 1)
	if page <= 0 {
		page = 1
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// ClampLimit forces a page size into [1, MaxPageSize]. A non-positive
// limit means the caller sent no usable value, so it gets the default
// page size rather than the minimum.
func ClampLimit(limit int) int {
	if limit < 1 {
		return 20
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// ClampOffset forces an offset to be non-negative.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}

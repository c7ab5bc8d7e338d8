package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds limit/offset parameters parsed from a request.
type Pagination struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// GetPagination extracts limit and offset from the query parameters,
// falling back to defaults when absent or unparsable. Offsets beyond the
// collection are legal and simply yield an empty page downstream.
func GetPagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// PaginatedResponse is the standard envelope for paged collections.
type PaginatedResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
}

func NewPaginatedResponse(data interface{}, total int64) PaginatedResponse {
	return PaginatedResponse{Data: data, Total: total}
}

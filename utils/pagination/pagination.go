package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// FieldError describes one rejected query parameter.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is returned when query parameters are malformed or out of bounds.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return "invalid query parameters: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(param, msg, typ string) {
	e.Fields = append(e.Fields, FieldError{Loc: []string{"query", param}, Msg: msg, Type: typ})
}

// ParsePaginationParams reads page and page_size from the request, applying defaults
// for missing values and rejecting anything that is not a valid integer in range.
func ParsePaginationParams(c *fiber.Ctx) (PaginationParams, error) {
	verr := &ValidationError{}
	params := PaginationParams{
		Page:     parseIntParam(c, "page", DefaultPage, verr),
		PageSize: parseIntParam(c, "page_size", DefaultPageSize, verr),
	}
	if len(verr.Fields) > 0 {
		return PaginationParams{}, verr
	}
	if err := ValidatePaginationParams(params); err != nil {
		return PaginationParams{}, err
	}
	return params, nil
}

func parseIntParam(c *fiber.Ctx, name string, fallback int, verr *ValidationError) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		verr.add(name, "Input should be a valid integer", "int_parsing")
		return fallback
	}
	return v
}

func ValidatePaginationParams(params PaginationParams) error {
	verr := &ValidationError{}
	if params.Page < 1 {
		verr.add("page", "Input should be greater than or equal to 1", "greater_than_equal")
	}
	if params.PageSize < 1 {
		verr.add("page_size", "Input should be greater than or equal to 1", "greater_than_equal")
	} else if params.PageSize > MaxPageSize {
		verr.add("page_size", fmt.Sprintf("Input should be less than or equal to %d", MaxPageSize), "less_than_equal")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// TotalPages returns ceil(total/pageSize), or 1 when there is nothing to page through.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Bounds returns the [start, end) slice bounds of page within total items, clamped to total.
func Bounds(page, pageSize, total int) (start, end int) {
	if page < 1 || pageSize < 1 || total <= 0 {
		return 0, 0
	}
	// Compare before multiplying so huge page numbers cannot overflow
	if page-1 > total/pageSize {
		return total, total
	}
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

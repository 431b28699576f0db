package services

import (
	"fmt"
	"strings"

	"message-search-backend/messages/models"
	"message-search-backend/utils/pagination"
)

// OutOfRangeError is returned when a page past the last page is requested while matches exist.
type OutOfRangeError struct {
	Page       int
	TotalPages int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("page %d is out of range (total pages: %d)", e.Page, e.TotalPages)
}

// RecordMatches reports whether any non-null field of record contains query, ignoring case.
// An empty query matches every record.
func RecordMatches(record models.Record, query string) bool {
	if query == "" {
		return true
	}
	return recordContains(record, strings.ToLower(query))
}

func recordContains(record models.Record, lowered string) bool {
	for _, value := range record {
		text, ok := value.Render()
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(text), lowered) {
			return true
		}
	}
	return false
}

// Filter returns the records matching query in their original order.
func Filter(records []models.Record, query string) []models.Record {
	if query == "" {
		return records
	}
	lowered := strings.ToLower(query)
	filtered := make([]models.Record, 0)
	for _, record := range records {
		if recordContains(record, lowered) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// Search filters records by query and returns the requested page.
// It has no side effects; records is never modified.
func Search(records []models.Record, query string, page, pageSize int) (models.SearchResponse, error) {
	if err := pagination.ValidatePaginationParams(pagination.PaginationParams{Page: page, PageSize: pageSize}); err != nil {
		return models.SearchResponse{}, err
	}

	filtered := Filter(records, query)
	total := len(filtered)
	totalPages := pagination.TotalPages(total, pageSize)

	if total > 0 && page > totalPages {
		return models.SearchResponse{}, &OutOfRangeError{Page: page, TotalPages: totalPages}
	}

	start, end := pagination.Bounds(page, pageSize, total)
	results := make([]models.Record, end-start)
	copy(results, filtered[start:end])

	return models.SearchResponse{
		Query:      query,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		Results:    results,
	}, nil
}

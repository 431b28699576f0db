package models

import "time"

type SearchResponse struct {
	Query      string   `json:"query"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
	Results    []Record `json:"results"`
}

// CacheStats describes the cache for the health endpoint.
type CacheStats struct {
	Records     int        `json:"cached_records"`
	LastRefresh *time.Time `json:"last_refresh"`
	LastError   string     `json:"last_error,omitempty"`
}

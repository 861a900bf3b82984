package models

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (Page-1)*Limit within a 32-bit int.
	MaxPage      = math.MaxInt32 / MaxLimit
)

// PageRequest is a normalised 1-based page request.
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest parses raw page and limit query values. Missing, non-numeric
// or non-positive values fall back to the defaults; limit is capped at MaxLimit
// and page at MaxPage.
func ParsePageRequest(rawPage, rawLimit string) PageRequest {
	return PageRequest{
		Page:  min(parsePositive(rawPage, DefaultPage), MaxPage),
		Limit: min(parsePositive(rawLimit, DefaultLimit), MaxLimit),
	}
}

// Normalize applies the same defaults as ParsePageRequest to an already built request.
func (p PageRequest) Normalize() PageRequest {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Page is a paginated result set.
type Page[T any] struct {
	Docs          []T   `json:"docs"`
	TotalDocs     int64 `json:"totalDocs"`
	Limit         int   `json:"limit"`
	Page          int   `json:"page"`
	TotalPages    int   `json:"totalPages"`
	PagingCounter int   `json:"pagingCounter"`
	HasPrevPage   bool  `json:"hasPrevPage"`
	HasNextPage   bool  `json:"hasNextPage"`
	PrevPage      *int  `json:"prevPage"`
	NextPage      *int  `json:"nextPage"`
}

// NewPage builds page metadata for docs out of total matching rows.
func NewPage[T any](docs []T, total int64, req PageRequest) *Page[T] {
	req = req.Normalize()
	if docs == nil {
		docs = []T{}
	}

	totalPages := 1
	if total > 0 {
		totalPages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}

	p := &Page[T]{
		Docs:          docs,
		TotalDocs:     total,
		Limit:         req.Limit,
		Page:          req.Page,
		TotalPages:    totalPages,
		PagingCounter: req.Offset() + 1,
		HasPrevPage:   req.Page > 1,
		HasNextPage:   req.Page < totalPages,
	}
	if p.HasPrevPage {
		prev := req.Page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := req.Page + 1
		p.NextPage = &next
	}
	return p
}

// Package view derives the visible page of tokens from a snapshot of the collection.
//
// Apply filters, sorts and paginates in that order. It never mutates its input.
package view

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/darmiel/tokenkeep/internal/core"
)

// AllServices disables the service filter.
const AllServices = "all"

const DefaultPageSize = 5

// PageSizeOptions are the page sizes offered to users.
var PageSizeOptions = []int{5, 10, 20, 50, 100}

type SortField string

const (
	SortByServiceName SortField = "serviceName"
	SortByExpiryDate  SortField = "expiryDate"
	SortByStatus      SortField = "status"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// ParseSortField accepts the JSON field names. An empty string yields the default.
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case "":
		return SortByServiceName, nil
	case SortByServiceName, SortByExpiryDate, SortByStatus:
		return SortField(s), nil
	}
	return "", fmt.Errorf("unknown sort field %q (want serviceName, expiryDate or status)", s)
}

func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(s)) {
	case "":
		return Ascending, nil
	case Ascending:
		return Ascending, nil
	case Descending:
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q (want asc or desc)", s)
}

// Sort is the active sort column and direction.
type Sort struct {
	Field     SortField
	Direction SortDirection
}

// Toggle returns the sort after a click on field: the same field flips the direction,
// another field starts ascending.
func (s Sort) Toggle(field SortField) Sort {
	if s.Field == field {
		if s.Direction == Ascending {
			return Sort{Field: field, Direction: Descending}
		}
		return Sort{Field: field, Direction: Ascending}
	}
	return Sort{Field: field, Direction: Ascending}
}

// Params selects the visible page.
type Params struct {
	// ServiceFilter keeps only tokens with exactly this service name, unless it is AllServices.
	ServiceFilter string
	ExpiredOnly   bool

	SortField     SortField
	SortDirection SortDirection

	// Page is 1-based.
	Page     int
	PageSize int

	// Match is an optional extra filter.
	Match func(core.Token) bool
}

// DefaultParams shows the first page of everything, sorted by service name.
func DefaultParams() Params {
	return Params{
		ServiceFilter: AllServices,
		SortField:     SortByServiceName,
		SortDirection: Ascending,
		Page:          1,
		PageSize:      DefaultPageSize,
	}
}

// Result is one page plus the totals needed to render pagination controls.
type Result struct {
	Page       []core.Token `json:"items"`
	TotalItems int          `json:"totalItems"`
	TotalPages int          `json:"totalPages"`
	PageNumber int          `json:"page"`
	PageSize   int          `json:"pageSize"`
}

// Apply runs filter, sort and paginate. Tokens must already carry their status.
func Apply(tokens []core.Token, p Params) Result {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}

	filtered := Filter(tokens, p)
	SortTokens(filtered, p.SortField, p.SortDirection)

	res := Result{
		TotalItems: len(filtered),
		TotalPages: pageCount(len(filtered), p.PageSize),
		PageNumber: p.Page,
		PageSize:   p.PageSize,
		Page:       []core.Token{},
	}

	// compare before multiplying so huge page numbers cannot overflow
	if p.Page-1 >= res.TotalPages {
		return res
	}
	start := (p.Page - 1) * p.PageSize
	end := start + min(p.PageSize, len(filtered)-start)
	res.Page = filtered[start:end]
	return res
}

func pageCount(items, size int) int {
	n := items / size
	if items%size != 0 {
		n++
	}
	return n
}

// Filter returns a new slice with the tokens matching p.
func Filter(tokens []core.Token, p Params) []core.Token {
	out := make([]core.Token, 0, len(tokens))
	for _, t := range tokens {
		if p.ServiceFilter != "" && p.ServiceFilter != AllServices && t.ServiceName != p.ServiceFilter {
			continue
		}
		if p.ExpiredOnly && t.Status != core.StatusExpired {
			continue
		}
		if p.Match != nil && !p.Match(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTokens sorts in place and keeps the input order of equal elements in both directions.
func SortTokens(tokens []core.Token, field SortField, dir SortDirection) {
	// collators keep internal buffers, so each call gets its own
	col := collate.New(language.English)

	var compare func(a, b core.Token) int
	switch field {
	case SortByExpiryDate:
		compare = func(a, b core.Token) int {
			return a.ExpiryDate.Compare(b.ExpiryDate)
		}
	case SortByStatus:
		compare = func(a, b core.Token) int {
			return col.CompareString(string(a.Status), string(b.Status))
		}
	default:
		compare = func(a, b core.Token) int {
			return col.CompareString(a.ServiceName, b.ServiceName)
		}
	}

	if dir == Descending {
		slices.SortStableFunc(tokens, func(a, b core.Token) int {
			return -compare(a, b)
		})
		return
	}
	slices.SortStableFunc(tokens, compare)
}

// ClampPage returns 1 if page is past the last page, page otherwise.
func ClampPage(page, totalPages int) int {
	if totalPages > 0 && page > totalPages {
		return 1
	}
	return max(page, 1)
}

// UniqueServices returns the sorted distinct service names.
func UniqueServices(tokens []core.Token) []string {
	names := make([]string, 0, len(tokens))
	for _, t := range tokens {
		names = append(names, t.ServiceName)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

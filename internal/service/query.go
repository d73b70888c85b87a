package service

import (
	"sort"
	"strings"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PageRequest is the zero-based paging and ordering of a list call.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (p PageRequest) normalized() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p PageRequest) descending() bool {
	return strings.EqualFold(p.SortDir, "desc")
}

// sortBy orders items by the named key; unknown keys fall back to fallback.
func sortBy[T any](items []T, key string, desc bool, keys map[string]func(a, b T) int, fallback string) {
	cmp, ok := keys[key]
	if !ok {
		cmp = keys[fallback]
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

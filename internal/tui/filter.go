package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/af2233/DB-Course-Work-Academic-Library/internal/api"
)

// The server filters by substring; the client only reorders the results so
// the closest name match sits on top.

func rankBooks(rows []api.BookRow, query string) []api.BookRow {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return nameScore(rows[i].Name, q) > nameScore(rows[j].Name, q)
	})
	return rows
}

func rankReaders(rows []api.ReaderRow, query string) []api.ReaderRow {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return nameScore(rows[i].Fio, q) > nameScore(rows[j].Fio, q)
	})
	return rows
}

// nameScore: exact match beats substring match beats edit-distance
// similarity. Substring hits rank by how much of the name the query covers.
func nameScore(name, query string) float64 {
	n := strings.ToLower(name)
	if n == query {
		return 2
	}
	if strings.Contains(n, query) {
		return 1 + float64(len(query))/float64(len(n))
	}
	dist := levenshtein.ComputeDistance(n, query)
	max := len([]rune(n))
	if l := len([]rune(query)); l > max {
		max = l
	}
	if max == 0 {
		return 0
	}
	return 1 - float64(dist)/float64(max)
}

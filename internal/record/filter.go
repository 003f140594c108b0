package record

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// AllCounters disables counter filtering.
const AllCounters = "ALL"

// Status narrows a list by the completed flag.
type Status string

const (
	StatusAll       Status = ""
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// FilterOptions selects a subset of records for display.
type FilterOptions struct {
	Counter string // "" or AllCounters keeps every counter
	Query   string // fuzzy match against base and display name
	Status  Status
}

// Filter returns the records matching opts, preserving input order.
func Filter(list []Record, opts FilterOptions) []Record {
	counter := strings.ToUpper(strings.TrimSpace(opts.Counter))
	query := queryTokens(opts.Query)
	out := make([]Record, 0, len(list))
	for _, r := range list {
		if counter != "" && counter != AllCounters && !strings.EqualFold(r.Counter, counter) {
			continue
		}
		switch opts.Status {
		case StatusActive:
			if !r.IsActive() {
				continue
			}
		case StatusCompleted:
			if r.IsActive() {
				continue
			}
		}
		if len(query) > 0 && !fuzzyMatch(r, query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Counters lists the distinct counter currencies present, sorted.
func Counters(list []Record) []string {
	seen := make(map[string]struct{})
	for _, r := range list {
		c := strings.ToUpper(r.Counter)
		if c == "" {
			continue
		}
		seen[c] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func queryTokens(q string) []string {
	return strings.Fields(strings.ToLower(q))
}

// fuzzyMatch requires every query token to hit some field token, either as a
// substring or within one edit for tokens of three or more runes.
func fuzzyMatch(r Record, query []string) bool {
	fields := strings.Fields(strings.ToLower(r.Base + " " + r.DisplayName))
	for _, q := range query {
		if !tokenHit(q, fields) {
			return false
		}
	}
	return true
}

func tokenHit(q string, fields []string) bool {
	for _, f := range fields {
		if strings.Contains(f, q) {
			return true
		}
		if len([]rune(q)) >= 3 && levenshtein.ComputeDistance(q, f) <= 1 {
			return true
		}
	}
	return false
}

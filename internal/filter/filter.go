// Package filter holds the pure filtering and ordering rules applied to
// in-memory log and ticket collections. Repositories do the coarse
// retrieval; everything here is side-effect free so the view derivation
// can be tested without a backing store.
package filter

import (
	"sort"
	"strconv"
	"strings"

	"rackops-backend/internal/model"
)

// All is the sentinel selector value that bypasses a categorical filter.
const All = "All"

type LogCriteria struct {
	Query    string // case-insensitive substring over hostname, label and log line
	Hostname string // case-insensitive substring over hostname only
	Severity string // "All", a level name, or a numeric level
}

type TicketCriteria struct {
	Query    string // case-insensitive substring over title and description
	Priority string // exact match on the given priority, "All" bypasses
	Status   string // exact match on status, "All" bypasses
}

// Logs returns the entries satisfying every active predicate, ordered
// ascending by severity key. The sort is stable: entries with equal keys
// keep their input order.
func Logs(entries []model.LogEntry, c LogCriteria) []model.LogEntry {
	out := make([]model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if !matchLog(e, c) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SeverityKey() < out[j].SeverityKey()
	})
	return out
}

// Tickets returns the tickets satisfying every active predicate,
// preserving input order.
func Tickets(tickets []model.Ticket, c TicketCriteria) []model.Ticket {
	out := make([]model.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !matchTicket(t, c) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchLog(e model.LogEntry, c LogCriteria) bool {
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		haystack := strings.ToLower(e.Hostname + " " + e.Label + " " + e.LogLine)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	if h := strings.ToLower(strings.TrimSpace(c.Hostname)); h != "" {
		if !strings.Contains(strings.ToLower(e.Hostname), h) {
			return false
		}
	}
	if active(c.Severity) {
		if e.SeverityKey() != severityValue(c.Severity) {
			return false
		}
	}
	return true
}

func matchTicket(t model.Ticket, c TicketCriteria) bool {
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		haystack := strings.ToLower(t.Title + " " + t.Desc)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	if active(c.Priority) && t.PriorityGiven != c.Priority {
		return false
	}
	if active(c.Status) && t.Status != c.Status {
		return false
	}
	return true
}

func active(selector string) bool {
	return selector != "" && selector != All
}

// severityValue accepts either a level name ("High") or a numeric level
// ("3"). Unparseable selectors behave like level 0.
func severityValue(selector string) int {
	if v := model.SeverityFromName(selector); v != model.SeverityUnknown {
		return v
	}
	v, err := strconv.Atoi(selector)
	if err != nil {
		return 0
	}
	return v
}

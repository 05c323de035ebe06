package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rackops-backend/internal/filter"
	"rackops-backend/internal/model"
)

func TestLogs_SubsetSatisfiesAllPredicates(t *testing.T) {
	entries := []model.LogEntry{
		{ID: 1, Hostname: "web-01", Label: "auth-3", LogLine: "sshd failure"},
		{ID: 2, Hostname: "db-01", Label: "disk-4", LogLine: "smartd warning"},
		{ID: 3, Hostname: "web-02", Label: "auth-1", LogLine: "session opened"},
		{ID: 4, Hostname: "web-01", Label: "cron-2", LogLine: "job overrun"},
	}

	got := filter.Logs(entries, filter.LogCriteria{Hostname: "web"})
	require.Len(t, got, 3)
	for _, e := range got {
		assert.Contains(t, e.Hostname, "web")
	}

	got = filter.Logs(entries, filter.LogCriteria{Query: "sshd", Hostname: "web"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestLogs_SeveritySelector(t *testing.T) {
	entries := []model.LogEntry{
		{ID: 1, Label: "auth-3"},
		{ID: 2, Label: "disk-1"},
		{ID: 3, Severity: model.SeverityHigh, Label: "net-9"},
	}

	// Numeric selector and name selector agree; explicit severity wins
	// over the label suffix.
	byNumber := filter.Logs(entries, filter.LogCriteria{Severity: "3"})
	byName := filter.Logs(entries, filter.LogCriteria{Severity: "High"})
	require.Len(t, byNumber, 2)
	assert.Equal(t, byNumber, byName)
}

func TestLogs_AllSentinelBypasses(t *testing.T) {
	entries := []model.LogEntry{
		{ID: 1, Label: "auth-3"},
		{ID: 2, Label: "disk-1"},
	}
	got := filter.Logs(entries, filter.LogCriteria{Severity: filter.All})
	assert.Len(t, got, 2)
}

func TestLogs_StableSortBySeverityKey(t *testing.T) {
	entries := []model.LogEntry{
		{ID: 1, Label: "a-2"},
		{ID: 2, Label: "b-1"},
		{ID: 3, Label: "c-2"},
		{ID: 4, Label: "d-1"},
		{ID: 5, Label: "no digit"}, // derived key 0
	}

	got := filter.Logs(entries, filter.LogCriteria{})
	require.Len(t, got, 5)
	ids := []int64{got[0].ID, got[1].ID, got[2].ID, got[3].ID, got[4].ID}
	// Ascending keys 0,1,1,2,2 with ties in input order.
	assert.Equal(t, []int64{5, 2, 4, 1, 3}, ids)
}

func TestLabelSeverity_ParseFailureIsZero(t *testing.T) {
	assert.Equal(t, 0, model.LabelSeverity(""))
	assert.Equal(t, 0, model.LabelSeverity("plain"))
	assert.Equal(t, 7, model.LabelSeverity("disk-7"))
	assert.Equal(t, 3, model.LabelSeverity("3"))
}

func TestTickets_PriorityMismatchYieldsEmpty(t *testing.T) {
	tickets := []model.Ticket{
		{ID: 1, Title: "A", PriorityGiven: "High", Status: model.StatusOpen},
	}
	got := filter.Tickets(tickets, filter.TicketCriteria{Priority: "Medium"})
	assert.Empty(t, got)
}

func TestTickets_CombinedCriteria(t *testing.T) {
	tickets := []model.Ticket{
		{ID: 1, Title: "PSU dead", Desc: "rack R3 psu", PriorityGiven: "High", Status: model.StatusOpen},
		{ID: 2, Title: "Fan noise", Desc: "rack R3 fan", PriorityGiven: "Low", Status: model.StatusOpen},
		{ID: 3, Title: "PSU flaky", Desc: "rack R9", PriorityGiven: "High", Status: model.StatusResolved},
	}

	got := filter.Tickets(tickets, filter.TicketCriteria{
		Query:    "psu",
		Priority: "High",
		Status:   model.StatusOpen,
	})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	// Status "All" keeps both PSU tickets, input order preserved.
	got = filter.Tickets(tickets, filter.TicketCriteria{Query: "psu", Status: filter.All})
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

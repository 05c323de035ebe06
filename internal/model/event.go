package model

import "time"

// SeverityEvent is the per-entry datapoint recorded into the event store
// for the stats endpoints.
type SeverityEvent struct {
	Time     time.Time `json:"time"`
	Hostname string    `json:"hostname"`
	Label    string    `json:"label"`
	Severity int       `json:"severity"`
}

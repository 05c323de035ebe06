package model

import "time"

// LogEntry is one captured bad-log record. IDs are assigned at ingest time
// from the upload timestamp, so they are monotonic within a single node.
type LogEntry struct {
	ID       int64     `json:"id"`
	LoggedAt time.Time `json:"logged_at"`
	UploadTS string    `json:"upload_ts"`
	Hostname string    `json:"hostname"`
	Label    string    `json:"label"`
	LogLine  string    `json:"log_line"`
	Severity int       `json:"severity"`
	Source   string    `json:"source_file,omitempty"`
}

// SeverityKey returns the ordering key for an entry. Entries carry an
// explicit severity; records ingested before the field existed fall back
// to the label suffix convention.
func (e LogEntry) SeverityKey() int {
	if e.Severity != SeverityUnknown {
		return e.Severity
	}
	return LabelSeverity(e.Label)
}

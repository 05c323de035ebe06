package dto

import (
	"time"

	"rackops-backend/internal/model"
)

type LogSearchRequest struct {
	StartTime time.Time
	EndTime   time.Time
	Query     string
	Hostname  string
	Severity  string
	Page      int
	Size      int
}

type LogSearchResponse struct {
	Logs       []model.LogEntry `json:"logs"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Size       int              `json:"size"`
}

// LogUploadRequest mirrors the wire contract of the upload endpoint:
// {upload_ts, hostname, label, log_line}. Severity is optional; when
// absent it is derived from the label suffix.
type LogUploadRequest struct {
	UploadTS string `json:"upload_ts"`
	Hostname string `json:"hostname"`
	Label    string `json:"label"`
	LogLine  string `json:"log_line"`
	Severity int    `json:"severity,omitempty"`
}

type LogDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type LogDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

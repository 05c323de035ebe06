package dto

import "time"

type StatsSummaryRequest struct {
	StartTime time.Time
	EndTime   time.Time
	Hostnames []string
}

type StatsSummaryResponse struct {
	TotalLogs  int64            `json:"totalLogs"`
	BySeverity map[string]int64 `json:"bySeverity"`
}

type StatsTimeseriesRequest struct {
	StartTime time.Time
	EndTime   time.Time
	Hostnames []string
	Interval  string // e.g. "5 minute", "1 hour"
	GroupBy   string // "severity", "hostname", "label" or "total"
}

type TimeseriesDataPoint struct {
	Timestamp int64 `json:"timestamp"` // epoch millis of the bucket start
	Value     int64 `json:"value"`
}

type TimeseriesSeries struct {
	Name string                `json:"name"`
	Data []TimeseriesDataPoint `json:"data"`
}

type StatsTimeseriesResponse struct {
	Series []TimeseriesSeries `json:"series"`
}

type HostnameListRequest struct {
	StartTime time.Time
	EndTime   time.Time
}

type HostnameListResponse struct {
	Hostnames []string `json:"hostnames"`
}

package timescaledb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/model"
	"rackops-backend/internal/repository"
)

type timescaleStatsRepository struct {
	pool       *pgxpool.Pool
	eventTable string
}

func NewTimescaleStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &timescaleStatsRepository{
		pool:       pool,
		eventTable: severityEventsTableName,
	}
}

func (r *timescaleStatsRepository) GetSummary(ctx context.Context, req dto.StatsSummaryRequest) (*dto.StatsSummaryResponse, error) {
	whereClauses := []string{"time >= $1", "time < $2"}
	args := []interface{}{req.StartTime, req.EndTime}
	argCounter := 3

	if len(req.Hostnames) > 0 {
		placeholders := make([]string, len(req.Hostnames))
		for i, h := range req.Hostnames {
			placeholders[i] = fmt.Sprintf("$%d", argCounter)
			args = append(args, h)
			argCounter++
		}
		whereClauses = append(whereClauses, fmt.Sprintf("hostname IN (%s)", strings.Join(placeholders, ",")))
	}

	querySQL := fmt.Sprintf(`
        SELECT severity, COUNT(*)
        FROM %s
        WHERE %s
        GROUP BY severity
        ORDER BY severity`,
		r.eventTable, strings.Join(whereClauses, " AND "))

	log.Debug().Str("query", querySQL).Interface("args", args).Msg("Executing summary query")

	rows, err := r.pool.Query(ctx, querySQL, args...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to execute summary query")
		return nil, fmt.Errorf("summary query failed: %w", err)
	}
	defer rows.Close()

	response := &dto.StatsSummaryResponse{
		BySeverity: make(map[string]int64),
	}
	for rows.Next() {
		var severity int
		var count int64
		if err := rows.Scan(&severity, &count); err != nil {
			log.Error().Err(err).Msg("Failed to scan summary row")
			continue
		}
		response.BySeverity[model.SeverityName(severity)] += count
		response.TotalLogs += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating summary results: %w", err)
	}
	return response, nil
}

var allowedIntervals = map[string]bool{
	"1 minute":  true,
	"5 minute":  true,
	"10 minute": true,
	"30 minute": true,
	"1 hour":    true,
	"1 day":     true,
}

var allowedGroupBy = map[string]string{
	"severity": "severity::text",
	"hostname": "hostname",
	"label":    "label",
}

func (r *timescaleStatsRepository) GetTimeseries(ctx context.Context, req dto.StatsTimeseriesRequest) (*dto.StatsTimeseriesResponse, error) {
	if !allowedIntervals[req.Interval] {
		return nil, fmt.Errorf("invalid interval: %s", req.Interval)
	}

	isGroupByTotal := req.GroupBy == "" || req.GroupBy == "total"
	groupColumn, ok := allowedGroupBy[req.GroupBy]
	if !isGroupByTotal && !ok {
		return nil, fmt.Errorf("invalid groupBy: %s", req.GroupBy)
	}

	var queryBuilder strings.Builder
	args := []interface{}{req.StartTime, req.EndTime}
	argCounter := 3

	queryBuilder.WriteString(fmt.Sprintf("SELECT time_bucket('%s', time) AS bucket, ", req.Interval))
	if isGroupByTotal {
		queryBuilder.WriteString("'total' AS group_key, ")
	} else {
		queryBuilder.WriteString(fmt.Sprintf("%s AS group_key, ", groupColumn))
	}
	queryBuilder.WriteString(fmt.Sprintf("COUNT(*) AS value FROM %s WHERE time >= $1 AND time < $2", r.eventTable))

	if len(req.Hostnames) > 0 {
		placeholders := make([]string, len(req.Hostnames))
		for i, h := range req.Hostnames {
			placeholders[i] = fmt.Sprintf("$%d", argCounter)
			args = append(args, h)
			argCounter++
		}
		queryBuilder.WriteString(fmt.Sprintf(" AND hostname IN (%s)", strings.Join(placeholders, ",")))
	}

	queryBuilder.WriteString(" GROUP BY bucket")
	if !isGroupByTotal {
		queryBuilder.WriteString(", group_key")
	}
	queryBuilder.WriteString(" ORDER BY bucket ASC")

	querySQL := queryBuilder.String()
	log.Debug().Str("query", querySQL).Interface("args", args).Msg("Executing timeseries query")

	rows, err := r.pool.Query(ctx, querySQL, args...)
	if err != nil {
		log.Error().Err(err).Str("query", querySQL).Msg("Failed to execute timeseries query")
		return nil, fmt.Errorf("timeseries query failed: %w", err)
	}
	defer rows.Close()

	seriesMap := make(map[string][]dto.TimeseriesDataPoint)
	for rows.Next() {
		var bucket time.Time
		var groupKey *string
		var value int64

		if err := rows.Scan(&bucket, &groupKey, &value); err != nil {
			log.Error().Err(err).Msg("Failed to scan timeseries row")
			continue
		}

		key := "total"
		if groupKey != nil {
			key = *groupKey
		}
		// Severity buckets read better by name.
		if req.GroupBy == "severity" {
			if n, convErr := parseIntKey(key); convErr == nil {
				key = model.SeverityName(n)
			}
		}

		seriesMap[key] = append(seriesMap[key], dto.TimeseriesDataPoint{
			Timestamp: bucket.UnixMilli(),
			Value:     value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating query results: %w", err)
	}

	response := &dto.StatsTimeseriesResponse{
		Series: make([]dto.TimeseriesSeries, 0, len(seriesMap)),
	}
	for name, data := range seriesMap {
		response.Series = append(response.Series, dto.TimeseriesSeries{
			Name: name,
			Data: data,
		})
	}
	return response, nil
}

func (r *timescaleStatsRepository) GetDistinctHostnames(ctx context.Context, req dto.HostnameListRequest) (*dto.HostnameListResponse, error) {
	whereClauses := []string{}
	args := []interface{}{}
	if !req.StartTime.IsZero() {
		args = append(args, req.StartTime)
		whereClauses = append(whereClauses, fmt.Sprintf("time >= $%d", len(args)))
	}
	if !req.EndTime.IsZero() {
		args = append(args, req.EndTime)
		whereClauses = append(whereClauses, fmt.Sprintf("time < $%d", len(args)))
	}

	querySQL := fmt.Sprintf("SELECT DISTINCT hostname FROM %s", r.eventTable)
	if len(whereClauses) > 0 {
		querySQL += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	querySQL += " ORDER BY hostname"

	rows, err := r.pool.Query(ctx, querySQL, args...)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query distinct hostnames")
		return nil, fmt.Errorf("failed getting hostnames: %w", err)
	}
	defer rows.Close()

	hostnames := make([]string, 0)
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			log.Error().Err(err).Msg("Failed to scan hostname row")
			continue
		}
		hostnames = append(hostnames, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating hostname results: %w", err)
	}

	return &dto.HostnameListResponse{Hostnames: hostnames}, nil
}

func parseIntKey(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/repository"
)

type StatsService interface {
	GetSummary(ctx context.Context, req dto.StatsSummaryRequest) (*dto.StatsSummaryResponse, error)
	GetTimeseries(ctx context.Context, req dto.StatsTimeseriesRequest) (*dto.StatsTimeseriesResponse, error)
	GetHostnames(ctx context.Context, req dto.HostnameListRequest) (*dto.HostnameListResponse, error)
}

// Mirrors what the timeseries store accepts; checked here so a bad
// query parameter surfaces as a 400 rather than a store error.
var timeseriesIntervals = map[string]bool{
	"1 minute":  true,
	"5 minute":  true,
	"10 minute": true,
	"30 minute": true,
	"1 hour":    true,
	"1 day":     true,
}

var timeseriesGroupings = map[string]bool{
	"severity": true,
	"hostname": true,
	"label":    true,
	"total":    true,
}

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{
		statsRepo: statsRepo,
	}
}

func (s *statsService) GetSummary(ctx context.Context, req dto.StatsSummaryRequest) (*dto.StatsSummaryResponse, error) {
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, invalidf("startTime and endTime are required")
	}
	if req.EndTime.Before(req.StartTime) {
		return nil, invalidf("endTime cannot be before startTime")
	}
	return s.statsRepo.GetSummary(ctx, req)
}

func (s *statsService) GetTimeseries(ctx context.Context, req dto.StatsTimeseriesRequest) (*dto.StatsTimeseriesResponse, error) {
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, invalidf("startTime and endTime are required")
	}
	if req.EndTime.Before(req.StartTime) {
		return nil, invalidf("endTime cannot be before startTime")
	}
	if req.Interval == "" {
		req.Interval = "1 hour"
	}
	if req.GroupBy == "" {
		req.GroupBy = "severity"
	}
	if !timeseriesIntervals[req.Interval] {
		return nil, invalidf("unknown interval %q", req.Interval)
	}
	if !timeseriesGroupings[req.GroupBy] {
		return nil, invalidf("unknown groupBy %q", req.GroupBy)
	}

	log.Debug().
		Str("interval", req.Interval).
		Str("group_by", req.GroupBy).
		Time("start_time", req.StartTime).
		Time("end_time", req.EndTime).
		Msg("Querying severity timeseries")

	return s.statsRepo.GetTimeseries(ctx, req)
}

func (s *statsService) GetHostnames(ctx context.Context, req dto.HostnameListRequest) (*dto.HostnameListResponse, error) {
	return s.statsRepo.GetDistinctHostnames(ctx, req)
}

package repository

import (
	"context"

	"rackops-backend/internal/dto"
)

type StatsRepository interface {
	GetSummary(ctx context.Context, req dto.StatsSummaryRequest) (*dto.StatsSummaryResponse, error)
	GetTimeseries(ctx context.Context, req dto.StatsTimeseriesRequest) (*dto.StatsTimeseriesResponse, error)
	GetDistinctHostnames(ctx context.Context, req dto.HostnameListRequest) (*dto.HostnameListResponse, error)
}

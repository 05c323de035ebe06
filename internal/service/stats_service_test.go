package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/service"
)

func TestGetTimeseriesDefaults(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := service.NewStatsService(repo)

	_, err := svc.GetTimeseries(context.Background(), dto.StatsTimeseriesRequest{
		StartTime: mustTime(t, "2025-04-01T00:00:00Z"),
		EndTime:   mustTime(t, "2025-04-02T00:00:00Z"),
	})
	require.NoError(t, err)

	require.Len(t, repo.timeseriesReqs, 1)
	assert.Equal(t, "1 hour", repo.timeseriesReqs[0].Interval)
	assert.Equal(t, "severity", repo.timeseriesReqs[0].GroupBy)
}

func TestGetTimeseriesValidation(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := service.NewStatsService(repo)

	start := mustTime(t, "2025-04-01T00:00:00Z")
	end := mustTime(t, "2025-04-02T00:00:00Z")

	// bad interval and bad groupBy are caller mistakes, not store errors
	_, err := svc.GetTimeseries(context.Background(), dto.StatsTimeseriesRequest{
		StartTime: start, EndTime: end, Interval: "7 fortnight",
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.GetTimeseries(context.Background(), dto.StatsTimeseriesRequest{
		StartTime: start, EndTime: end, GroupBy: "rack",
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.GetTimeseries(context.Background(), dto.StatsTimeseriesRequest{
		StartTime: start, EndTime: end,
	})
	assert.NoError(t, err)
	_, err = svc.GetTimeseries(context.Background(), dto.StatsTimeseriesRequest{})
	assert.ErrorIs(t, err, service.ErrValidation)

	assert.Len(t, repo.timeseriesReqs, 1)
}

func TestGetSummaryRequiresRange(t *testing.T) {
	svc := service.NewStatsService(&fakeStatsRepo{})

	_, err := svc.GetSummary(context.Background(), dto.StatsSummaryRequest{})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.GetSummary(context.Background(), dto.StatsSummaryRequest{
		StartTime: mustTime(t, "2025-04-02T00:00:00Z"),
		EndTime:   mustTime(t, "2025-04-01T00:00:00Z"),
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/model"
	"rackops-backend/internal/service"
)

func TestUploadAssignsSeverityAndID(t *testing.T) {
	producer := &fakeProducer{}
	svc := service.NewLogIngestService(producer)

	entry, err := svc.Upload(context.Background(), dto.LogUploadRequest{
		UploadTS: "2026-08-29T10:00:00Z",
		Hostname: "node-7",
		Label:    "auth-3",
		LogLine:  "sshd: error: authentication failure",
	})
	require.NoError(t, err)

	assert.Equal(t, model.SeverityHigh, entry.Severity)
	assert.NotZero(t, entry.ID)
	require.Len(t, producer.produced, 1)
	assert.Equal(t, *entry, producer.produced[0])
}

func TestUploadExplicitSeverityWins(t *testing.T) {
	producer := &fakeProducer{}
	svc := service.NewLogIngestService(producer)

	entry, err := svc.Upload(context.Background(), dto.LogUploadRequest{
		UploadTS: "2026-08-29T10:00:00Z",
		Hostname: "node-7",
		Label:    "auth-3",
		LogLine:  "line",
		Severity: model.SeverityLow,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SeverityLow, entry.Severity)
}

func TestUploadValidation(t *testing.T) {
	producer := &fakeProducer{}
	svc := service.NewLogIngestService(producer)

	cases := []dto.LogUploadRequest{
		{},
		{UploadTS: "2026-08-29T10:00:00Z", Hostname: "h", Label: "l-1"},
		{UploadTS: "2026-08-29T10:00:00Z", Hostname: "  ", Label: "l-1", LogLine: "x"},
		{UploadTS: "not a time", Hostname: "h", Label: "l-1", LogLine: "x"},
		{UploadTS: "2026-08-29T10:00:00Z", Hostname: "h", Label: "l-1", LogLine: "x", Severity: 9},
	}
	for _, req := range cases {
		_, err := svc.Upload(context.Background(), req)
		assert.ErrorIs(t, err, service.ErrValidation)
	}
	// nothing reached the topic
	assert.Empty(t, producer.produced)
}

func TestUploadIDsStrictlyIncrease(t *testing.T) {
	svc := service.NewLogIngestService(&fakeProducer{})

	var last int64
	for i := 0; i < 5; i++ {
		entry, err := svc.Upload(context.Background(), dto.LogUploadRequest{
			UploadTS: "2026-08-29T10:00:00Z", // same timestamp every time
			Hostname: "node-7",
			Label:    "auth-3",
			LogLine:  "line",
		})
		require.NoError(t, err)
		assert.Greater(t, entry.ID, last)
		last = entry.ID
	}
}

func TestSearchLogsRefinesSeverityAndOrder(t *testing.T) {
	repo := &fakeLogRepo{entries: []model.LogEntry{
		{ID: 1, Hostname: "a", Label: "disk-4", LogLine: "x"},
		{ID: 2, Hostname: "b", Label: "auth-1", LogLine: "x"},
		{ID: 3, Hostname: "c", Label: "net-4", LogLine: "x"},
		{ID: 4, Hostname: "d", Label: "sys-2", LogLine: "x", Severity: model.SeverityMedium},
	}}
	svc := service.NewLogQueryService(repo)

	resp, err := svc.SearchLogs(context.Background(), dto.LogSearchRequest{})
	require.NoError(t, err)

	ids := make([]int64, 0, len(resp.Logs))
	for _, e := range resp.Logs {
		ids = append(ids, e.ID)
	}
	// ascending by severity key, ties keep store order
	assert.Equal(t, []int64{2, 4, 1, 3}, ids)
}

func TestSearchLogsSeveritySelector(t *testing.T) {
	repo := &fakeLogRepo{entries: []model.LogEntry{
		{ID: 1, Label: "disk-4"},
		{ID: 2, Label: "auth-1"},
		{ID: 3, Label: "net-4"},
	}}
	svc := service.NewLogQueryService(repo)

	resp, err := svc.SearchLogs(context.Background(), dto.LogSearchRequest{Severity: "Critical"})
	require.NoError(t, err)
	require.Len(t, resp.Logs, 2)
	assert.Equal(t, int64(1), resp.Logs[0].ID)
	assert.Equal(t, int64(3), resp.Logs[1].ID)

	// defaults applied on the way to the store
	require.Len(t, repo.searchReqs, 1)
	assert.Equal(t, 1, repo.searchReqs[0].Page)
	assert.Equal(t, 500, repo.searchReqs[0].Size)
}

func TestSearchLogsRejectsInvertedRange(t *testing.T) {
	svc := service.NewLogQueryService(&fakeLogRepo{})

	_, err := svc.SearchLogs(context.Background(), dto.LogSearchRequest{
		StartTime: mustTime(t, "2026-08-29T10:00:00Z"),
		EndTime:   mustTime(t, "2026-08-29T09:00:00Z"),
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestDeleteLogs(t *testing.T) {
	repo := &fakeLogRepo{deleteCount: 2}
	svc := service.NewLogQueryService(repo)

	resp, err := svc.DeleteLogs(context.Background(), dto.LogDeleteRequest{IDs: []int64{10, 20}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Deleted)

	_, err = svc.DeleteLogs(context.Background(), dto.LogDeleteRequest{})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Len(t, repo.deletedIDs, 1)
}

package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/filter"
	"rackops-backend/internal/repository"
)

type LogQueryService interface {
	SearchLogs(ctx context.Context, req dto.LogSearchRequest) (*dto.LogSearchResponse, error)
	DeleteLogs(ctx context.Context, req dto.LogDeleteRequest) (*dto.LogDeleteResponse, error)
}

type logQueryService struct {
	logRepo repository.LogRepository
}

func NewLogQueryService(logRepo repository.LogRepository) LogQueryService {
	return &logQueryService{
		logRepo: logRepo,
	}
}

// SearchLogs does coarse retrieval in the store (time range, free text,
// hostname) and then applies the in-memory rules for the severity
// selector and the severity ordering. The ordering key can come from a
// legacy label suffix, which the store cannot compute, so the final
// refinement always happens here.
func (s *logQueryService) SearchLogs(ctx context.Context, req dto.LogSearchRequest) (*dto.LogSearchResponse, error) {
	if !req.StartTime.IsZero() && !req.EndTime.IsZero() && req.EndTime.Before(req.StartTime) {
		return nil, invalidf("endTime cannot be before startTime")
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 || req.Size > 1000 {
		req.Size = 500
	}
	req.Query = strings.TrimSpace(req.Query)
	req.Hostname = strings.TrimSpace(req.Hostname)
	if req.Severity == "" {
		req.Severity = filter.All
	}

	log.Info().
		Time("start_time", req.StartTime).
		Time("end_time", req.EndTime).
		Str("query", req.Query).
		Str("hostname", req.Hostname).
		Str("severity", req.Severity).
		Int("page", req.Page).
		Int("size", req.Size).
		Msg("Searching logs")

	resp, err := s.logRepo.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	resp.Logs = filter.Logs(resp.Logs, filter.LogCriteria{
		Query:    req.Query,
		Hostname: req.Hostname,
		Severity: req.Severity,
	})
	return resp, nil
}

func (s *logQueryService) DeleteLogs(ctx context.Context, req dto.LogDeleteRequest) (*dto.LogDeleteResponse, error) {
	if len(req.IDs) == 0 {
		return nil, invalidf("ids must not be empty")
	}
	deleted, err := s.logRepo.Delete(ctx, req.IDs)
	if err != nil {
		return nil, err
	}
	log.Info().Int("requested", len(req.IDs)).Int64("deleted", deleted).Msg("Deleted logs")
	return &dto.LogDeleteResponse{Deleted: deleted}, nil
}

package repository

import (
	"context"

	"rackops-backend/internal/dto"
)

type LogRepository interface {
	Search(ctx context.Context, req dto.LogSearchRequest) (*dto.LogSearchResponse, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
}

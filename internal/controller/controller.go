package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rackops-backend/internal/model"
	"rackops-backend/internal/repository"
	"rackops-backend/internal/service"
	"rackops-backend/internal/util"
)

// respondError maps service and repository errors onto HTTP statuses.
// Validation problems are the caller's fault, conflicts come from the
// inventory invariants, everything else is a 500 with a generic message.
func respondError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, repository.ErrSlotRange):
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrRackNotFound),
		errors.Is(err, repository.ErrServerNotFound):
		ctx.JSON(http.StatusNotFound, model.NewResponse(err.Error(), nil))
	case errors.Is(err, repository.ErrDuplicateServer),
		errors.Is(err, repository.ErrRackFull),
		errors.Is(err, repository.ErrSlotTaken):
		ctx.JSON(http.StatusConflict, model.NewResponse(err.Error(), nil))
	default:
		ctx.JSON(http.StatusInternalServerError, model.NewResponse(fallback, nil))
	}
}

// parseTimeRangeParams reads the startTime/endTime query pair shared by
// the log and stats endpoints. When required is false a fully absent
// pair yields zero times, meaning an unbounded range.
func parseTimeRangeParams(ctx *gin.Context, required bool) (time.Time, time.Time, error) {
	startStr := ctx.Query("startTime")
	endStr := ctx.Query("endTime")

	if startStr == "" && endStr == "" && !required {
		return time.Time{}, time.Time{}, nil
	}
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, errors.New("startTime and endTime are required")
	}

	start, errStart := util.ParseTimeFlexible(startStr)
	end, errEnd := util.ParseTimeFlexible(endStr)
	if errStart != nil || errEnd != nil {
		return time.Time{}, time.Time{}, errors.New("invalid startTime or endTime format, use ISO 8601 or epoch milliseconds")
	}
	return start, end, nil
}

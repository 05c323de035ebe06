package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/model"
	"rackops-backend/internal/service"
)

type StatsController struct {
	statsService service.StatsService
}

func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{
		statsService: statsService,
	}
}

func RegisterStatsRoutes(router *gin.Engine, controller *StatsController) {
	v1Stats := router.Group("/api/v1/stats")
	{
		v1Stats.GET("/summary", controller.GetSummary)
		v1Stats.GET("/timeseries", controller.GetTimeseries)
	}
	router.GET("/api/v1/hostnames", controller.GetHostnames)
}

// GetSummary godoc
// @Summary      Severity summary
// @Description  Retrieves total entry counts by severity within a time range, optionally filtered by hostnames.
// @Tags         stats
// @Produce      json
// @Param        startTime  query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime    query     string  true   "End time (ISO 8601 or epoch ms)"
// @Param        hostnames  query     string  false  "Comma-separated hostname list"
// @Success      200        {object}  dto.StatsSummaryResponse "Severity counts"
// @Failure      400        {object}  model.Response "Invalid query parameters"
// @Failure      500        {object}  model.Response "Internal server error"
// @Router       /api/v1/stats/summary [get]
func (c *StatsController) GetSummary(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRangeParams(ctx, true)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	req := dto.StatsSummaryRequest{
		StartTime: startTime,
		EndTime:   endTime,
		Hostnames: splitParam(ctx.Query("hostnames")),
	}

	result, err := c.statsService.GetSummary(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error getting severity summary")
		respondError(ctx, err, "Failed to get severity summary")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetTimeseries godoc
// @Summary      Severity timeseries
// @Description  Retrieves bucketed entry counts over a time range, grouped by severity, hostname, label or total.
// @Tags         stats
// @Produce      json
// @Param        startTime  query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime    query     string  true   "End time (ISO 8601 or epoch ms)"
// @Param        hostnames  query     string  false  "Comma-separated hostname list"
// @Param        interval   query     string  false  "Bucket interval (default: 1 hour)" Enums(1 minute, 5 minute, 10 minute, 30 minute, 1 hour, 1 day)
// @Param        groupBy    query     string  false  "Grouping key (default: severity)" Enums(severity, hostname, label, total)
// @Success      200        {object}  dto.StatsTimeseriesResponse "Bucketed series"
// @Failure      400        {object}  model.Response "Invalid query parameters"
// @Failure      500        {object}  model.Response "Internal server error"
// @Router       /api/v1/stats/timeseries [get]
func (c *StatsController) GetTimeseries(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRangeParams(ctx, true)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	req := dto.StatsTimeseriesRequest{
		StartTime: startTime,
		EndTime:   endTime,
		Hostnames: splitParam(ctx.Query("hostnames")),
		Interval:  ctx.DefaultQuery("interval", "1 hour"),
		GroupBy:   ctx.DefaultQuery("groupBy", "severity"),
	}

	result, err := c.statsService.GetTimeseries(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error getting severity timeseries")
		respondError(ctx, err, "Failed to get severity timeseries")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetHostnames godoc
// @Summary      Known hostnames
// @Description  Retrieves the distinct hostnames seen in the event store, optionally narrowed to a time range.
// @Tags         stats
// @Produce      json
// @Param        startTime  query     string  false  "Start time (ISO 8601 or epoch ms)"
// @Param        endTime    query     string  false  "End time (ISO 8601 or epoch ms)"
// @Success      200        {object}  dto.HostnameListResponse "Hostname list"
// @Failure      400        {object}  model.Response "Invalid query parameters"
// @Failure      500        {object}  model.Response "Internal server error"
// @Router       /api/v1/hostnames [get]
func (c *StatsController) GetHostnames(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRangeParams(ctx, false)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	req := dto.HostnameListRequest{
		StartTime: startTime,
		EndTime:   endTime,
	}

	result, err := c.statsService.GetHostnames(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error listing hostnames")
		respondError(ctx, err, "Failed to list hostnames")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

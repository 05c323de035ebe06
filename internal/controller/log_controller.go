package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/middleware"
	"rackops-backend/internal/model"
	"rackops-backend/internal/service"
)

type LogController struct {
	logQueryService  service.LogQueryService
	logIngestService service.LogIngestService
}

func NewLogController(logQueryService service.LogQueryService, logIngestService service.LogIngestService) *LogController {
	return &LogController{
		logQueryService:  logQueryService,
		logIngestService: logIngestService,
	}
}

func RegisterLogRoutes(router *gin.Engine, controller *LogController) {
	v1 := router.Group("/api/v1/logs")
	{
		v1.GET("", controller.GetLogs)
		v1.POST("", controller.UploadLog)
		v1.DELETE("", middleware.RequireRole(middleware.RoleEngineer), controller.DeleteLogs)
	}
}

// GetLogs godoc
// @Summary      Search and filter logs
// @Description  Retrieves log entries by time range, free text query, hostname and severity. Results are ordered ascending by severity.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        startTime  query     string  false  "Start time in ISO 8601 format or epoch milliseconds"
// @Param        endTime    query     string  false  "End time in ISO 8601 format or epoch milliseconds"
// @Param        query      query     string  false  "Free text search over hostname, label and log line"
// @Param        hostname   query     string  false  "Hostname substring filter"
// @Param        severity   query     string  false  "Severity selector: All, a level name or a numeric level" Enums(All, Low, Medium, High, Critical)
// @Param        page       query     int     false  "Page number (default: 1)" minimum(1)
// @Param        size       query     int     false  "Entries per page (default: 500, max: 1000)" minimum(1) maximum(1000)
// @Success      200        {object}  dto.LogSearchResponse "Successfully retrieved logs"
// @Failure      400        {object}  model.Response "Invalid query parameters"
// @Failure      500        {object}  model.Response "Internal server error"
// @Router       /api/v1/logs [get]
func (c *LogController) GetLogs(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRangeParams(ctx, false)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.DefaultQuery("size", "500"))
	if err != nil || size <= 0 || size > 1000 {
		size = 500
	}

	searchReq := dto.LogSearchRequest{
		StartTime: startTime,
		EndTime:   endTime,
		Query:     ctx.Query("query"),
		Hostname:  ctx.Query("hostname"),
		Severity:  ctx.DefaultQuery("severity", "All"),
		Page:      page,
		Size:      size,
	}

	result, err := c.logQueryService.SearchLogs(ctx.Request.Context(), searchReq)
	if err != nil {
		log.Error().Err(err).Msg("Error searching logs")
		respondError(ctx, err, "Failed to search logs")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// UploadLog godoc
// @Summary      Upload a log entry
// @Description  Accepts a single bad-log record pushed by a host agent. Severity defaults to the label suffix when omitted.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        entry  body      dto.LogUploadRequest  true  "Log entry to ingest"
// @Success      202    {object}  model.Response "Entry accepted for indexing"
// @Failure      400    {object}  model.Response "Invalid entry"
// @Failure      500    {object}  model.Response "Internal server error"
// @Router       /api/v1/logs [post]
func (c *LogController) UploadLog(ctx *gin.Context) {
	var req dto.LogUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body", nil))
		return
	}

	entry, err := c.logIngestService.Upload(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error ingesting uploaded log")
		respondError(ctx, err, "Failed to ingest log entry")
		return
	}
	ctx.JSON(http.StatusAccepted, model.NewResponse("Log entry accepted", entry))
}

// DeleteLogs godoc
// @Summary      Delete log entries
// @Description  Removes the entries with the given ids from the index. Requires the Engineer role.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        X-Role  header    string                true  "Caller role"  Enums(Engineer, Technician)
// @Param        ids     body      dto.LogDeleteRequest  true  "Ids to delete"
// @Success      200     {object}  dto.LogDeleteResponse "Number of deleted entries"
// @Failure      400     {object}  model.Response "Invalid request body"
// @Failure      403     {object}  model.Response "Missing Engineer role"
// @Failure      500     {object}  model.Response "Internal server error"
// @Router       /api/v1/logs [delete]
func (c *LogController) DeleteLogs(ctx *gin.Context) {
	var req dto.LogDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body", nil))
		return
	}

	result, err := c.logQueryService.DeleteLogs(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error deleting logs")
		respondError(ctx, err, "Failed to delete logs")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

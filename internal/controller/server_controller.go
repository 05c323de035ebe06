package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/middleware"
	"rackops-backend/internal/model"
	"rackops-backend/internal/service"
)

type ServerController struct {
	serverService service.ServerService
}

func NewServerController(serverService service.ServerService) *ServerController {
	return &ServerController{
		serverService: serverService,
	}
}

func RegisterServerRoutes(router *gin.Engine, controller *ServerController) {
	v1Servers := router.Group("/api/v1/servers")
	{
		v1Servers.GET("", controller.GetServers)
		v1Servers.POST("", middleware.RequireRole(middleware.RoleEngineer), controller.CreateServer)
		v1Servers.DELETE("/:hostname", middleware.RequireRole(middleware.RoleEngineer), controller.DeleteServer)
	}
	v1Racks := router.Group("/api/v1/racks")
	{
		v1Racks.GET("", controller.GetRackOverview)
		v1Racks.GET("/:label", controller.GetRackDetail)
	}
}

// GetServers godoc
// @Summary      List servers
// @Description  Retrieves every server in the inventory with its rack and aisle labels.
// @Tags         servers
// @Produce      json
// @Success      200  {object}  dto.ServerListResponse "Successfully retrieved servers"
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/v1/servers [get]
func (c *ServerController) GetServers(ctx *gin.Context) {
	result, err := c.serverService.ListServers(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error listing servers")
		respondError(ctx, err, "Failed to list servers")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// CreateServer godoc
// @Summary      Add a server
// @Description  Places a server in a rack. The first free slot is assigned when no slot is given. Requires the Engineer role.
// @Tags         servers
// @Accept       json
// @Produce      json
// @Param        X-Role  header    string                   true  "Caller role"  Enums(Engineer, Technician)
// @Param        server  body      dto.ServerCreateRequest  true  "Server to add"
// @Success      201     {object}  dto.ServerCreateResponse "Created server"
// @Failure      400     {object}  model.Response "Invalid request"
// @Failure      403     {object}  model.Response "Missing Engineer role"
// @Failure      404     {object}  model.Response "Rack not found"
// @Failure      409     {object}  model.Response "Duplicate hostname or serial, full rack, or occupied slot"
// @Failure      500     {object}  model.Response "Internal server error"
// @Router       /api/v1/servers [post]
func (c *ServerController) CreateServer(ctx *gin.Context) {
	var req dto.ServerCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body", nil))
		return
	}

	result, err := c.serverService.CreateServer(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("hostname", req.Hostname).Msg("Error creating server")
		respondError(ctx, err, "Failed to create server")
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// DeleteServer godoc
// @Summary      Remove a server
// @Description  Removes the server with the given hostname and frees its slot. Requires the Engineer role.
// @Tags         servers
// @Produce      json
// @Param        X-Role    header    string  true  "Caller role"  Enums(Engineer, Technician)
// @Param        hostname  path      string  true  "Hostname of the server to remove"
// @Success      200       {object}  model.Response "Removed server"
// @Failure      403       {object}  model.Response "Missing Engineer role"
// @Failure      404       {object}  model.Response "Server not found"
// @Failure      500       {object}  model.Response "Internal server error"
// @Router       /api/v1/servers/{hostname} [delete]
func (c *ServerController) DeleteServer(ctx *gin.Context) {
	hostname := ctx.Param("hostname")

	server, err := c.serverService.DeleteServer(ctx.Request.Context(), hostname)
	if err != nil {
		log.Error().Err(err).Str("hostname", hostname).Msg("Error deleting server")
		respondError(ctx, err, "Failed to delete server")
		return
	}
	ctx.JSON(http.StatusOK, model.NewResponse("Server removed", server))
}

// GetRackOverview godoc
// @Summary      Rack occupancy overview
// @Description  Retrieves every rack of the room grouped by aisle with its occupied slot count.
// @Tags         racks
// @Produce      json
// @Success      200  {object}  dto.RackOverviewResponse "Occupancy per rack, grouped by aisle"
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/v1/racks [get]
func (c *ServerController) GetRackOverview(ctx *gin.Context) {
	result, err := c.serverService.RackOverview(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error building rack overview")
		respondError(ctx, err, "Failed to build rack overview")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetRackDetail godoc
// @Summary      Rack slot detail
// @Description  Retrieves the fixed slot list of one rack, with the server in each occupied slot.
// @Tags         racks
// @Produce      json
// @Param        label  path      string  true  "Rack label (e.g. R12)"
// @Success      200    {object}  dto.RackDetailResponse "Slot list of the rack"
// @Failure      404    {object}  model.Response "Rack not found"
// @Failure      500    {object}  model.Response "Internal server error"
// @Router       /api/v1/racks/{label} [get]
func (c *ServerController) GetRackDetail(ctx *gin.Context) {
	label := ctx.Param("label")

	result, err := c.serverService.RackDetail(ctx.Request.Context(), label)
	if err != nil {
		log.Error().Err(err).Str("rack", label).Msg("Error building rack detail")
		respondError(ctx, err, "Failed to build rack detail")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

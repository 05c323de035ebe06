package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rackops-backend/internal/service"
)

type PathController struct {
	pathService service.PathService
}

func NewPathController(pathService service.PathService) *PathController {
	return &PathController{
		pathService: pathService,
	}
}

func RegisterPathRoutes(router *gin.Engine, controller *PathController) {
	v1 := router.Group("/api/v1/path")
	{
		v1.GET("/:server", controller.GetPath)
		v1.GET("/:server/visualize", controller.VisualizePath)
	}
}

// GetPath godoc
// @Summary      Walking path to a server
// @Description  Computes the shortest walking route from the room door to the aisle cell in front of the server's rack. The server is addressed by numeric id or hostname.
// @Tags         path
// @Produce      json
// @Param        server  path      string  true  "Server id or hostname"
// @Success      200     {object}  dto.PathResponse "Route as a list of grid cells"
// @Failure      404     {object}  model.Response "Server not found"
// @Failure      500     {object}  model.Response "Internal server error"
// @Router       /api/v1/path/{server} [get]
func (c *PathController) GetPath(ctx *gin.Context) {
	ref := ctx.Param("server")

	result, err := c.pathService.PathToServer(ctx.Request.Context(), ref)
	if err != nil {
		log.Error().Err(err).Str("server", ref).Msg("Error computing path")
		respondError(ctx, err, "Failed to compute path")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// VisualizePath godoc
// @Summary      ASCII path visualization
// @Description  Renders the room grid as text with the route marked: D door, G goal, * route, B rack, W walkway.
// @Tags         path
// @Produce      plain
// @Param        server  path      string  true  "Server id or hostname"
// @Success      200     {string}  string "Rendered grid"
// @Failure      404     {object}  model.Response "Server not found"
// @Failure      500     {object}  model.Response "Internal server error"
// @Router       /api/v1/path/{server}/visualize [get]
func (c *PathController) VisualizePath(ctx *gin.Context) {
	ref := ctx.Param("server")

	rendered, err := c.pathService.VisualizePath(ctx.Request.Context(), ref)
	if err != nil {
		log.Error().Err(err).Str("server", ref).Msg("Error visualizing path")
		respondError(ctx, err, "Failed to visualize path")
		return
	}
	ctx.String(http.StatusOK, rendered)
}

package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/filter"
	"rackops-backend/internal/middleware"
	"rackops-backend/internal/model"
	"rackops-backend/internal/service"
)

type TicketController struct {
	ticketService service.TicketService
}

func NewTicketController(ticketService service.TicketService) *TicketController {
	return &TicketController{
		ticketService: ticketService,
	}
}

func RegisterTicketRoutes(router *gin.Engine, controller *TicketController) {
	v1 := router.Group("/api/v1/tickets")
	{
		v1.GET("", controller.GetTickets)
		v1.POST("", controller.CreateTicket)
		v1.PUT("/:id/status", middleware.RequireRole(middleware.RoleEngineer), controller.UpdateTicketStatus)
		v1.DELETE("", middleware.RequireRole(middleware.RoleEngineer), controller.DeleteTickets)
	}
}

// GetTickets godoc
// @Summary      List and filter tickets
// @Description  Retrieves tickets filtered by free text, given priority and status. "All" bypasses a selector.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        query     query     string  false  "Free text search over title and description"
// @Param        priority  query     string  false  "Given priority selector (default: All)" Enums(All, Low, Normal, Medium, High, Critical)
// @Param        status    query     string  false  "Status selector (default: All)" Enums(All, Open, In Progress, Resolved)
// @Success      200       {object}  dto.TicketListResponse "Successfully retrieved tickets"
// @Failure      500       {object}  model.Response "Internal server error"
// @Router       /api/v1/tickets [get]
func (c *TicketController) GetTickets(ctx *gin.Context) {
	criteria := filter.TicketCriteria{
		Query:    ctx.Query("query"),
		Priority: ctx.DefaultQuery("priority", filter.All),
		Status:   ctx.DefaultQuery("status", filter.All),
	}

	result, err := c.ticketService.ListTickets(ctx.Request.Context(), criteria)
	if err != nil {
		log.Error().Err(err).Msg("Error listing tickets")
		respondError(ctx, err, "Failed to list tickets")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// CreateTicket godoc
// @Summary      Create a ticket
// @Description  Opens a new ticket. The given priority defaults to Normal; the estimated priority and label are derived from it.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        ticket  body      dto.TicketCreateRequest  true  "Ticket to create"
// @Success      201     {object}  model.Ticket "Created ticket"
// @Failure      400     {object}  model.Response "Invalid ticket"
// @Failure      500     {object}  model.Response "Internal server error"
// @Router       /api/v1/tickets [post]
func (c *TicketController) CreateTicket(ctx *gin.Context) {
	var req dto.TicketCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body", nil))
		return
	}

	ticket, err := c.ticketService.CreateTicket(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error creating ticket")
		respondError(ctx, err, "Failed to create ticket")
		return
	}
	ctx.JSON(http.StatusCreated, ticket)
}

// UpdateTicketStatus godoc
// @Summary      Update a ticket's status
// @Description  Moves a ticket between Open, In Progress and Resolved. Only the status changes. Requires the Engineer role.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        X-Role  header    string                   true  "Caller role"  Enums(Engineer, Technician)
// @Param        id      path      int                      true  "Ticket id"
// @Param        status  body      dto.TicketStatusRequest  true  "New status"
// @Success      200     {object}  model.Ticket "Updated ticket"
// @Failure      400     {object}  model.Response "Invalid status"
// @Failure      403     {object}  model.Response "Missing Engineer role"
// @Failure      404     {object}  model.Response "Ticket not found"
// @Failure      500     {object}  model.Response "Internal server error"
// @Router       /api/v1/tickets/{id}/status [put]
func (c *TicketController) UpdateTicketStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid ticket id", nil))
		return
	}
	var req dto.TicketStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body", nil))
		return
	}

	ticket, err := c.ticketService.UpdateStatus(ctx.Request.Context(), id, req)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Error updating ticket status")
		respondError(ctx, err, "Failed to update ticket status")
		return
	}
	ctx.JSON(http.StatusOK, ticket)
}

// DeleteTickets godoc
// @Summary      Delete tickets
// @Description  Removes the tickets with the given ids. Requires the Engineer role.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        X-Role  header    string                   true  "Caller role"  Enums(Engineer, Technician)
// @Param        ids     body      dto.TicketDeleteRequest  true  "Ids to delete"
// @Success      200     {object}  dto.TicketDeleteResponse "Number of deleted tickets"
// @Failure      400     {object}  model.Response "Invalid request body"
// @Failure      403     {object}  model.Response "Missing Engineer role"
// @Failure      500     {object}  model.Response "Internal server error"
// @Router       /api/v1/tickets [delete]
func (c *TicketController) DeleteTickets(ctx *gin.Context) {
	var req dto.TicketDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body", nil))
		return
	}

	result, err := c.ticketService.DeleteTickets(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error deleting tickets")
		respondError(ctx, err, "Failed to delete tickets")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

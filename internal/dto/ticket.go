package dto

import "rackops-backend/internal/model"

type TicketCreateRequest struct {
	User          string `json:"user"`
	Title         string `json:"title"`
	Desc          string `json:"desc"`
	PriorityGiven string `json:"priority_given"`
}

type TicketListResponse struct {
	Tickets    []model.Ticket `json:"tickets"`
	TotalCount int            `json:"totalCount"`
}

type TicketStatusRequest struct {
	Status string `json:"status"`
}

type TicketDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type TicketDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

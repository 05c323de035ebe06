package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/filter"
	"rackops-backend/internal/model"
	"rackops-backend/internal/repository"
	"rackops-backend/internal/service"
)

func TestCreateTicketDefaults(t *testing.T) {
	repo := &fakeTicketRepo{}
	svc := service.NewTicketService(repo)

	ticket, err := svc.CreateTicket(context.Background(), dto.TicketCreateRequest{
		User:  "alice",
		Title: "PSU fan rattling",
		Desc:  "rack R3, slot 2",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusOpen, ticket.Status)
	assert.Equal(t, "Normal", ticket.PriorityGiven)
	assert.Equal(t, model.SeverityMedium, ticket.EstimatedPriority)
	assert.Equal(t, "psu-fan-rattling-2", ticket.Label)
	assert.NotZero(t, ticket.ID)
}

func TestCreateTicketValidation(t *testing.T) {
	svc := service.NewTicketService(&fakeTicketRepo{})

	_, err := svc.CreateTicket(context.Background(), dto.TicketCreateRequest{User: "alice"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.CreateTicket(context.Background(), dto.TicketCreateRequest{Title: "   "})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.CreateTicket(context.Background(), dto.TicketCreateRequest{
		User: "alice", Title: "PSU down", Desc: "   ",
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.CreateTicket(context.Background(), dto.TicketCreateRequest{
		User: "alice", Title: "x", Desc: "y", PriorityGiven: "Urgentish",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCreateTicketExplicitPriority(t *testing.T) {
	svc := service.NewTicketService(&fakeTicketRepo{})

	ticket, err := svc.CreateTicket(context.Background(), dto.TicketCreateRequest{
		User:          "bob",
		Title:         "Disk failure imminent",
		Desc:          "SMART reallocated sectors climbing",
		PriorityGiven: "High",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SeverityHigh, ticket.EstimatedPriority)
	assert.Equal(t, "disk-failure-imminent-3", ticket.Label)
}

func TestUpdateStatus(t *testing.T) {
	repo := &fakeTicketRepo{tickets: []model.Ticket{
		{ID: 1, Status: model.StatusOpen, Title: "a"},
		{ID: 2, Status: model.StatusOpen, Title: "b"},
	}}
	svc := service.NewTicketService(repo)

	ticket, err := svc.UpdateStatus(context.Background(), 1, dto.TicketStatusRequest{Status: model.StatusResolved})
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, ticket.Status)

	// only the targeted ticket changed
	other, err := repo.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, other.Status)
}

func TestUpdateStatusInvalid(t *testing.T) {
	repo := &fakeTicketRepo{tickets: []model.Ticket{{ID: 1, Status: model.StatusOpen}}}
	svc := service.NewTicketService(repo)

	_, err := svc.UpdateStatus(context.Background(), 1, dto.TicketStatusRequest{Status: "Closed"})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Zero(t, repo.updateCalls)

	_, err = svc.UpdateStatus(context.Background(), 99, dto.TicketStatusRequest{Status: model.StatusOpen})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteTickets(t *testing.T) {
	repo := &fakeTicketRepo{tickets: []model.Ticket{{ID: 1}, {ID: 2}, {ID: 3}}}
	svc := service.NewTicketService(repo)

	resp, err := svc.DeleteTickets(context.Background(), dto.TicketDeleteRequest{IDs: []int64{1, 3, 99}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Deleted)
	assert.Len(t, repo.tickets, 1)

	_, err = svc.DeleteTickets(context.Background(), dto.TicketDeleteRequest{})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Len(t, repo.deleteCalls, 1)
}

func TestListTicketsFiltered(t *testing.T) {
	repo := &fakeTicketRepo{tickets: []model.Ticket{
		{ID: 1, Status: model.StatusOpen, PriorityGiven: "High", Title: "fan noise"},
		{ID: 2, Status: model.StatusResolved, PriorityGiven: "High", Title: "fan noise"},
		{ID: 3, Status: model.StatusOpen, PriorityGiven: "Normal", Title: "cable swap"},
	}}
	svc := service.NewTicketService(repo)

	resp, err := svc.ListTickets(context.Background(), filter.TicketCriteria{
		Status:   model.StatusOpen,
		Priority: filter.All,
	})
	require.NoError(t, err)
	require.Len(t, resp.Tickets, 2)
	assert.Equal(t, int64(1), resp.Tickets[0].ID)
	assert.Equal(t, int64(3), resp.Tickets[1].ID)
	assert.Equal(t, 2, resp.TotalCount)
}

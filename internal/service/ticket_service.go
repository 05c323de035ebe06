package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/filter"
	"rackops-backend/internal/model"
	"rackops-backend/internal/repository"
)

type TicketService interface {
	ListTickets(ctx context.Context, criteria filter.TicketCriteria) (*dto.TicketListResponse, error)
	CreateTicket(ctx context.Context, req dto.TicketCreateRequest) (*model.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, req dto.TicketStatusRequest) (*model.Ticket, error)
	DeleteTickets(ctx context.Context, req dto.TicketDeleteRequest) (*dto.TicketDeleteResponse, error)
}

type ticketService struct {
	ticketRepo repository.TicketRepository
}

func NewTicketService(ticketRepo repository.TicketRepository) TicketService {
	return &ticketService{
		ticketRepo: ticketRepo,
	}
}

func (s *ticketService) ListTickets(ctx context.Context, criteria filter.TicketCriteria) (*dto.TicketListResponse, error) {
	tickets, err := s.ticketRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	tickets = filter.Tickets(tickets, criteria)
	return &dto.TicketListResponse{
		Tickets:    tickets,
		TotalCount: len(tickets),
	}, nil
}

func (s *ticketService) CreateTicket(ctx context.Context, req dto.TicketCreateRequest) (*model.Ticket, error) {
	req.User = strings.TrimSpace(req.User)
	req.Title = strings.TrimSpace(req.Title)
	req.Desc = strings.TrimSpace(req.Desc)
	req.PriorityGiven = strings.TrimSpace(req.PriorityGiven)

	if req.User == "" || req.Title == "" || req.Desc == "" {
		return nil, invalidf("user, title and desc are required")
	}
	if req.PriorityGiven == "" {
		req.PriorityGiven = "Normal"
	}
	estimated := model.SeverityFromName(req.PriorityGiven)
	if estimated == model.SeverityUnknown && req.PriorityGiven != "Unknown" {
		return nil, invalidf("unknown priority %q", req.PriorityGiven)
	}

	ticket := &model.Ticket{
		Status:            model.StatusOpen,
		User:              req.User,
		Title:             req.Title,
		Desc:              req.Desc,
		PriorityGiven:     req.PriorityGiven,
		EstimatedPriority: estimated,
		Label:             ticketLabel(req.Title, estimated),
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create ticket")
		return nil, err
	}
	log.Info().Int64("id", ticket.ID).Str("user", ticket.User).Str("priority", ticket.PriorityGiven).Msg("Created ticket")
	return ticket, nil
}

func (s *ticketService) UpdateStatus(ctx context.Context, id int64, req dto.TicketStatusRequest) (*model.Ticket, error) {
	if !model.ValidStatus(req.Status) {
		return nil, invalidf("unknown status %q", req.Status)
	}
	affected, err := s.ticketRepo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}
	log.Info().Int64("id", id).Str("status", req.Status).Msg("Updated ticket status")
	return s.ticketRepo.FindByID(ctx, id)
}

func (s *ticketService) DeleteTickets(ctx context.Context, req dto.TicketDeleteRequest) (*dto.TicketDeleteResponse, error) {
	if len(req.IDs) == 0 {
		return nil, invalidf("ids must not be empty")
	}
	deleted, err := s.ticketRepo.Delete(ctx, req.IDs)
	if err != nil {
		return nil, err
	}
	log.Info().Int("requested", len(req.IDs)).Int64("deleted", deleted).Msg("Deleted tickets")
	return &dto.TicketDeleteResponse{Deleted: deleted}, nil
}

// ticketLabel slugs the title and appends the estimated priority digit,
// keeping ticket labels compatible with the log label convention.
func ticketLabel(title string, estimated int) string {
	slug := strings.ToLower(title)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	if len(slug) > 60 {
		slug = slug[:60]
	}
	if slug == "" {
		slug = "ticket"
	}
	return slug + "-" + strconv.Itoa(estimated)
}

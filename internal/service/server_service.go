package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/layout"
	"rackops-backend/internal/model"
	"rackops-backend/internal/repository"
)

// ServerService covers the inventory operations: listing and mutating
// servers, and deriving the rack occupancy views from the fixed layout.
type ServerService interface {
	ListServers(ctx context.Context) (*dto.ServerListResponse, error)
	CreateServer(ctx context.Context, req dto.ServerCreateRequest) (*dto.ServerCreateResponse, error)
	DeleteServer(ctx context.Context, hostname string) (*model.Server, error)
	RackOverview(ctx context.Context) (*dto.RackOverviewResponse, error)
	RackDetail(ctx context.Context, rackLabel string) (*dto.RackDetailResponse, error)
}

type serverService struct {
	inventory    repository.InventoryRepository
	room         *layout.Layout
	slotsPerRack int
}

func NewServerService(inventory repository.InventoryRepository, room *layout.Layout, slotsPerRack int) ServerService {
	return &serverService{
		inventory:    inventory,
		room:         room,
		slotsPerRack: slotsPerRack,
	}
}

func (s *serverService) ListServers(ctx context.Context) (*dto.ServerListResponse, error) {
	servers, err := s.inventory.ListServers(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ServerListResponse{Servers: servers}, nil
}

func (s *serverService) CreateServer(ctx context.Context, req dto.ServerCreateRequest) (*dto.ServerCreateResponse, error) {
	req.RackLabel = strings.TrimSpace(req.RackLabel)
	req.Hostname = strings.TrimSpace(req.Hostname)
	req.SerialNumber = strings.TrimSpace(req.SerialNumber)

	if req.Hostname == "" || req.SerialNumber == "" {
		return nil, invalidf("hostname and serial_number are required")
	}
	if req.RackID == 0 && req.RackLabel == "" {
		return nil, invalidf("either rack_id or rack_label must be given")
	}
	if req.Slot != nil && (*req.Slot < 1 || *req.Slot > s.slotsPerRack) {
		return nil, invalidf("slot must be between 1 and %d", s.slotsPerRack)
	}

	server, err := s.inventory.CreateServer(ctx, req.RackID, req.RackLabel, req.Hostname, req.SerialNumber, req.Slot)
	if err != nil {
		log.Error().Err(err).Str("hostname", req.Hostname).Msg("Failed to create server")
		return nil, err
	}
	log.Info().
		Int64("server_id", server.ServerID).
		Str("hostname", server.Hostname).
		Str("rack", server.RackLabel).
		Int("slot", server.Slot).
		Msg("Created server")
	return &dto.ServerCreateResponse{
		ServerID:  server.ServerID,
		RackLabel: server.RackLabel,
		Hostname:  server.Hostname,
		Slot:      server.Slot,
	}, nil
}

func (s *serverService) DeleteServer(ctx context.Context, hostname string) (*model.Server, error) {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		return nil, invalidf("hostname is required")
	}
	server, err := s.inventory.DeleteServerByHostname(ctx, hostname)
	if err != nil {
		return nil, err
	}
	log.Info().Str("hostname", hostname).Str("rack", server.RackLabel).Msg("Deleted server")
	return server, nil
}

// RackOverview groups the room's racks by aisle and reports how many of
// each rack's slots are taken. Every rack of the fixed layout appears,
// including empty ones.
func (s *serverService) RackOverview(ctx context.Context) (*dto.RackOverviewResponse, error) {
	servers, err := s.inventory.ListServers(ctx)
	if err != nil {
		return nil, err
	}
	counts := layout.Occupancy(servers)
	groups := s.room.AisleGroups()

	resp := &dto.RackOverviewResponse{}
	for _, aisle := range s.room.AisleLabels() {
		overview := dto.AisleOverview{Label: aisle}
		for _, rackLabel := range groups[aisle] {
			overview.Racks = append(overview.Racks, dto.RackOccupancy{
				Label:      rackLabel,
				Occupied:   counts[rackLabel],
				MaxServers: s.slotsPerRack,
			})
		}
		resp.Aisles = append(resp.Aisles, overview)
	}
	return resp, nil
}

func (s *serverService) RackDetail(ctx context.Context, rackLabel string) (*dto.RackDetailResponse, error) {
	rackLabel = strings.TrimSpace(rackLabel)
	if _, ok := s.room.Rack(rackLabel); !ok {
		return nil, repository.ErrRackNotFound
	}
	servers, err := s.inventory.ListServers(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.RackDetailResponse{
		Label: rackLabel,
		Slots: layout.RackSlots(rackLabel, s.slotsPerRack, servers),
	}, nil
}

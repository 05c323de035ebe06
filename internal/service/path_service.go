package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/layout"
	"rackops-backend/internal/model"
	"rackops-backend/internal/repository"
)

// PathService answers "how do I walk to this server": shortest route
// from the room door to the aisle cell in front of the server's rack.
type PathService interface {
	PathToServer(ctx context.Context, ref string) (*dto.PathResponse, error)
	VisualizePath(ctx context.Context, ref string) (string, error)
}

type pathService struct {
	inventory repository.InventoryRepository
	room      *layout.Layout
}

func NewPathService(inventory repository.InventoryRepository, room *layout.Layout) PathService {
	return &pathService{
		inventory: inventory,
		room:      room,
	}
}

// PathToServer accepts either a numeric server id or a hostname.
func (s *pathService) PathToServer(ctx context.Context, ref string) (*dto.PathResponse, error) {
	server, err := s.resolveServer(ctx, ref)
	if err != nil {
		return nil, err
	}
	goal, ok := s.room.GoalCell(server.RackLabel)
	if !ok {
		return nil, fmt.Errorf("rack %q has no reachable aisle cell", server.RackLabel)
	}
	path := layout.ShortestPath(s.room, s.room.Door, goal)
	if path == nil {
		return nil, fmt.Errorf("no path from door to rack %q", server.RackLabel)
	}
	return &dto.PathResponse{
		ServerID: server.ServerID,
		Hostname: server.Hostname,
		Start:    s.room.Door,
		Goal:     goal,
		Path:     path,
	}, nil
}

func (s *pathService) VisualizePath(ctx context.Context, ref string) (string, error) {
	resp, err := s.PathToServer(ctx, ref)
	if err != nil {
		return "", err
	}
	return layout.Render(s.room, resp.Path, resp.Goal), nil
}

func (s *pathService) resolveServer(ctx context.Context, ref string) (*model.Server, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, invalidf("server id or hostname is required")
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.inventory.FindServerByID(ctx, id)
	}
	return s.inventory.FindServerByHostname(ctx, ref)
}

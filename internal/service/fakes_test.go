package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/layout"
	"rackops-backend/internal/model"
	"rackops-backend/internal/repository"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

type fakeTicketRepo struct {
	tickets []model.Ticket
	nextID  int64

	updateCalls int
	deleteCalls [][]int64
}

func (r *fakeTicketRepo) FindAll(ctx context.Context) ([]model.Ticket, error) {
	out := make([]model.Ticket, len(r.tickets))
	copy(out, r.tickets)
	return out, nil
}

func (r *fakeTicketRepo) FindByID(ctx context.Context, id int64) (*model.Ticket, error) {
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			t := r.tickets[i]
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *model.Ticket) error {
	r.nextID++
	ticket.ID = r.nextID
	r.tickets = append(r.tickets, *ticket)
	return nil
}

func (r *fakeTicketRepo) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	r.updateCalls++
	for i := range r.tickets {
		if r.tickets[i].ID == id {
			r.tickets[i].Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeTicketRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	r.deleteCalls = append(r.deleteCalls, ids)
	var deleted int64
	kept := r.tickets[:0]
	for _, t := range r.tickets {
		found := false
		for _, id := range ids {
			if t.ID == id {
				found = true
				break
			}
		}
		if found {
			deleted++
		} else {
			kept = append(kept, t)
		}
	}
	r.tickets = kept
	return deleted, nil
}

type fakeLogRepo struct {
	entries     []model.LogEntry
	searchReqs  []dto.LogSearchRequest
	deletedIDs  [][]int64
	deleteCount int64
}

func (r *fakeLogRepo) Search(ctx context.Context, req dto.LogSearchRequest) (*dto.LogSearchResponse, error) {
	r.searchReqs = append(r.searchReqs, req)
	out := make([]model.LogEntry, len(r.entries))
	copy(out, r.entries)
	return &dto.LogSearchResponse{
		Logs:       out,
		TotalCount: int64(len(out)),
		Page:       req.Page,
		Size:       req.Size,
	}, nil
}

func (r *fakeLogRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	r.deletedIDs = append(r.deletedIDs, ids)
	return r.deleteCount, nil
}

type fakeProducer struct {
	produced []model.LogEntry
	err      error
}

func (p *fakeProducer) Produce(ctx context.Context, logs []model.LogEntry) error {
	if p.err != nil {
		return p.err
	}
	p.produced = append(p.produced, logs...)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

type fakeStatsRepo struct {
	timeseriesReqs []dto.StatsTimeseriesRequest
}

func (r *fakeStatsRepo) GetSummary(ctx context.Context, req dto.StatsSummaryRequest) (*dto.StatsSummaryResponse, error) {
	return &dto.StatsSummaryResponse{BySeverity: map[string]int64{}}, nil
}

func (r *fakeStatsRepo) GetTimeseries(ctx context.Context, req dto.StatsTimeseriesRequest) (*dto.StatsTimeseriesResponse, error) {
	r.timeseriesReqs = append(r.timeseriesReqs, req)
	return &dto.StatsTimeseriesResponse{}, nil
}

func (r *fakeStatsRepo) GetDistinctHostnames(ctx context.Context, req dto.HostnameListRequest) (*dto.HostnameListResponse, error) {
	return &dto.HostnameListResponse{Hostnames: []string{"node-1"}}, nil
}

type fakeInventory struct {
	servers []model.Server
	nextID  int64
}

func (r *fakeInventory) EnsureLayout(ctx context.Context, name string, l *layout.Layout) error {
	return nil
}

func (r *fakeInventory) ListServers(ctx context.Context) ([]model.Server, error) {
	out := make([]model.Server, len(r.servers))
	copy(out, r.servers)
	return out, nil
}

func (r *fakeInventory) FindServerByID(ctx context.Context, serverID int64) (*model.Server, error) {
	for i := range r.servers {
		if r.servers[i].ServerID == serverID {
			s := r.servers[i]
			return &s, nil
		}
	}
	return nil, repository.ErrServerNotFound
}

func (r *fakeInventory) FindServerByHostname(ctx context.Context, hostname string) (*model.Server, error) {
	for i := range r.servers {
		if r.servers[i].Hostname == hostname {
			s := r.servers[i]
			return &s, nil
		}
	}
	return nil, repository.ErrServerNotFound
}

func (r *fakeInventory) CreateServer(ctx context.Context, rackID int64, rackLabel, hostname, serial string, slot *int) (*model.Server, error) {
	for _, s := range r.servers {
		if s.Hostname == hostname || s.SerialNumber == serial {
			return nil, repository.ErrDuplicateServer
		}
	}
	assigned := 1
	if slot != nil {
		assigned = *slot
	} else {
		used := make(map[int]bool)
		for _, s := range r.servers {
			if s.RackLabel == rackLabel {
				used[s.Slot] = true
			}
		}
		for used[assigned] {
			assigned++
		}
	}
	r.nextID++
	server := model.Server{
		ServerID:     r.nextID,
		RackID:       rackID,
		Hostname:     hostname,
		SerialNumber: serial,
		Slot:         assigned,
		RackLabel:    rackLabel,
	}
	r.servers = append(r.servers, server)
	return &server, nil
}

func (r *fakeInventory) DeleteServerByHostname(ctx context.Context, hostname string) (*model.Server, error) {
	for i := range r.servers {
		if r.servers[i].Hostname == hostname {
			s := r.servers[i]
			r.servers = append(r.servers[:i], r.servers[i+1:]...)
			return &s, nil
		}
	}
	return nil, repository.ErrServerNotFound
}

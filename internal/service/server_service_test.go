package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rackops-backend/internal/dto"
	"rackops-backend/internal/layout"
	"rackops-backend/internal/repository"
	"rackops-backend/internal/service"
)

const slotsPerRack = 8

func newRoom() *layout.Layout {
	return layout.Build(6, 6)
}

func TestRackOverviewCoversEveryRack(t *testing.T) {
	inv := &fakeInventory{}
	svc := service.NewServerService(inv, newRoom(), slotsPerRack)

	_, err := inv.CreateServer(context.Background(), 0, "R1", "h1", "s1", nil)
	require.NoError(t, err)
	_, err = inv.CreateServer(context.Background(), 0, "R1", "h2", "s2", nil)
	require.NoError(t, err)

	resp, err := svc.RackOverview(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Aisles, 6)
	total := 0
	var r1 *dto.RackOccupancy
	for _, aisle := range resp.Aisles {
		for i := range aisle.Racks {
			total++
			assert.Equal(t, slotsPerRack, aisle.Racks[i].MaxServers)
			if aisle.Racks[i].Label == "R1" {
				r1 = &aisle.Racks[i]
			}
		}
	}
	assert.Equal(t, 36, total)
	require.NotNil(t, r1)
	assert.Equal(t, 2, r1.Occupied)
}

func TestRackDetail(t *testing.T) {
	inv := &fakeInventory{}
	svc := service.NewServerService(inv, newRoom(), slotsPerRack)

	slot := 5
	_, err := inv.CreateServer(context.Background(), 0, "R3", "h1", "s1", &slot)
	require.NoError(t, err)

	resp, err := svc.RackDetail(context.Background(), "R3")
	require.NoError(t, err)
	require.Len(t, resp.Slots, slotsPerRack)
	assert.True(t, resp.Slots[0].Empty)
	require.NotNil(t, resp.Slots[4].Server)
	assert.Equal(t, "h1", resp.Slots[4].Server.Hostname)

	_, err = svc.RackDetail(context.Background(), "R99")
	assert.ErrorIs(t, err, repository.ErrRackNotFound)
}

func TestCreateServerValidation(t *testing.T) {
	svc := service.NewServerService(&fakeInventory{}, newRoom(), slotsPerRack)

	_, err := svc.CreateServer(context.Background(), dto.ServerCreateRequest{RackLabel: "R1"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.CreateServer(context.Background(), dto.ServerCreateRequest{Hostname: "h", SerialNumber: "s"})
	assert.ErrorIs(t, err, service.ErrValidation)

	bad := 9
	_, err = svc.CreateServer(context.Background(), dto.ServerCreateRequest{
		RackLabel: "R1", Hostname: "h", SerialNumber: "s", Slot: &bad,
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCreateAndDeleteServer(t *testing.T) {
	inv := &fakeInventory{}
	svc := service.NewServerService(inv, newRoom(), slotsPerRack)

	created, err := svc.CreateServer(context.Background(), dto.ServerCreateRequest{
		RackLabel: "R2", Hostname: "node-1", SerialNumber: "SN-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Slot)
	assert.Equal(t, "R2", created.RackLabel)

	_, err = svc.CreateServer(context.Background(), dto.ServerCreateRequest{
		RackLabel: "R2", Hostname: "node-1", SerialNumber: "SN-2",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateServer)

	deleted, err := svc.DeleteServer(context.Background(), "node-1")
	require.NoError(t, err)
	assert.Equal(t, "node-1", deleted.Hostname)

	_, err = svc.DeleteServer(context.Background(), "node-1")
	assert.ErrorIs(t, err, repository.ErrServerNotFound)
}

func TestPathToServer(t *testing.T) {
	inv := &fakeInventory{}
	room := newRoom()
	_, err := inv.CreateServer(context.Background(), 0, "R7", "node-2", "SN-2", nil)
	require.NoError(t, err)

	svc := service.NewPathService(inv, room)

	resp, err := svc.PathToServer(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, room.Door, resp.Start)
	require.NotEmpty(t, resp.Path)
	assert.Equal(t, room.Door, resp.Path[0])
	assert.Equal(t, resp.Goal, resp.Path[len(resp.Path)-1])

	goal, ok := room.GoalCell("R7")
	require.True(t, ok)
	assert.Equal(t, goal, resp.Goal)

	// every step is a walkable cell adjacent to the previous one
	for i, p := range resp.Path {
		assert.False(t, room.Blocked(p))
		if i > 0 {
			prev := resp.Path[i-1]
			dist := abs(p.X-prev.X) + abs(p.Y-prev.Y)
			assert.Equal(t, 1, dist)
		}
	}

	// by hostname too
	byHost, err := svc.PathToServer(context.Background(), "node-2")
	require.NoError(t, err)
	assert.Equal(t, resp.Goal, byHost.Goal)

	_, err = svc.PathToServer(context.Background(), "999")
	assert.ErrorIs(t, err, repository.ErrServerNotFound)

	_, err = svc.PathToServer(context.Background(), "no-such-host")
	assert.ErrorIs(t, err, repository.ErrServerNotFound)
}

func TestVisualizePath(t *testing.T) {
	inv := &fakeInventory{}
	room := newRoom()
	_, err := inv.CreateServer(context.Background(), 0, "R1", "node-3", "SN-3", nil)
	require.NoError(t, err)

	svc := service.NewPathService(inv, room)

	rendered, err := svc.VisualizePath(context.Background(), "node-3")
	require.NoError(t, err)

	assert.Contains(t, rendered, "D")
	assert.Contains(t, rendered, "G")
	assert.Contains(t, rendered, "*")
	assert.Equal(t, room.Height, len(strings.Split(strings.TrimRight(rendered, "\n"), "\n")))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

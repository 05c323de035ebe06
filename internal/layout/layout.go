// Package layout models the fixed datacenter room: a rectangular grid of
// free cells and rack cells, grouped into aisles, with a single door.
// Rack labels are derived purely from the aisle/rack counts, so the
// overview can be rendered even for racks no server has claimed yet.
package layout

import (
	"fmt"

	"rackops-backend/internal/model"
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RackPlacement ties a rack label to the cells it occupies on the grid.
type RackPlacement struct {
	Label      string
	AisleLabel string
	Cells      []Point
}

// Layout is the generated room. Each aisle is one row of rack pairs
// separated by walkways, with a free border all around and the door on
// the bottom edge.
type Layout struct {
	Width  int
	Height int
	Door   Point
	Racks  []RackPlacement

	blocked map[Point]bool
	inside  map[Point]bool
}

// Build generates the room for the given aisle and rack counts. Racks are
// labeled R1..Rn row-major, aisles A1..Am top to bottom. Each rack spans
// two adjacent cells, following the "WBBWBBWBBW" row template.
func Build(aisleCount, racksPerAisle int) *Layout {
	pairsPerRow := racksPerAisle / 2
	l := &Layout{
		Width:   pairsPerRow*3 + 1,
		Height:  aisleCount + 3,
		blocked: make(map[Point]bool),
		inside:  make(map[Point]bool),
	}
	l.Door = Point{X: 0, Y: l.Height - 1}

	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			l.inside[Point{X: x, Y: y}] = true
		}
	}

	rackNum := 0
	for a := 0; a < aisleCount; a++ {
		y := a + 1
		aisleLabel := fmt.Sprintf("A%d", a+1)
		for p := 0; p < pairsPerRow; p++ {
			x := p*3 + 1
			for _, cell := range []Point{{X: x, Y: y}, {X: x + 1, Y: y}} {
				rackNum++
				placement := RackPlacement{
					Label:      fmt.Sprintf("R%d", rackNum),
					AisleLabel: aisleLabel,
					Cells:      []Point{cell},
				}
				l.Racks = append(l.Racks, placement)
				l.blocked[cell] = true
			}
		}
	}
	return l
}

// Contains reports whether p is a cell of the room.
func (l *Layout) Contains(p Point) bool {
	return l.inside[p]
}

// Blocked reports whether p is occupied by a rack.
func (l *Layout) Blocked(p Point) bool {
	return l.blocked[p]
}

// Rack returns the placement for a label.
func (l *Layout) Rack(label string) (RackPlacement, bool) {
	for _, r := range l.Racks {
		if r.Label == label {
			return r, true
		}
	}
	return RackPlacement{}, false
}

// GoalCell picks a free cell adjacent to the rack, the approach target
// for pathfinding.
func (l *Layout) GoalCell(rackLabel string) (Point, bool) {
	rack, ok := l.Rack(rackLabel)
	if !ok {
		return Point{}, false
	}
	for _, cell := range rack.Cells {
		for _, n := range neighbors(cell) {
			if l.Contains(n) && !l.Blocked(n) {
				return n, true
			}
		}
	}
	return Point{}, false
}

// AisleGroups returns rack labels grouped per aisle, in label order.
func (l *Layout) AisleGroups() map[string][]string {
	groups := make(map[string][]string)
	for _, r := range l.Racks {
		groups[r.AisleLabel] = append(groups[r.AisleLabel], r.Label)
	}
	return groups
}

// AisleLabels returns the aisle labels top to bottom.
func (l *Layout) AisleLabels() []string {
	var labels []string
	seen := make(map[string]bool)
	for _, r := range l.Racks {
		if !seen[r.AisleLabel] {
			seen[r.AisleLabel] = true
			labels = append(labels, r.AisleLabel)
		}
	}
	return labels
}

// Occupancy counts servers per rack label. Servers referencing labels
// outside the layout are counted anyway; the overview simply never shows
// them.
func Occupancy(servers []model.Server) map[string]int {
	counts := make(map[string]int)
	for _, s := range servers {
		counts[s.RackLabel]++
	}
	return counts
}

// Slot is one of the fixed positions inside a rack.
type Slot struct {
	Slot   int           `json:"slot"`
	Empty  bool          `json:"empty"`
	Server *model.Server `json:"server,omitempty"`
}

// RackSlots renders the fixed slot list for one rack: occupied slots
// carry their server, every other slot is marked empty.
func RackSlots(rackLabel string, slotsPerRack int, servers []model.Server) []Slot {
	bySlot := make(map[int]model.Server)
	for _, s := range servers {
		if s.RackLabel == rackLabel {
			bySlot[s.Slot] = s
		}
	}
	slots := make([]Slot, 0, slotsPerRack)
	for i := 1; i <= slotsPerRack; i++ {
		if srv, ok := bySlot[i]; ok {
			srv := srv
			slots = append(slots, Slot{Slot: i, Server: &srv})
		} else {
			slots = append(slots, Slot{Slot: i, Empty: true})
		}
	}
	return slots
}

func neighbors(p Point) []Point {
	return []Point{
		{X: p.X + 1, Y: p.Y},
		{X: p.X - 1, Y: p.Y},
		{X: p.X, Y: p.Y + 1},
		{X: p.X, Y: p.Y - 1},
	}
}

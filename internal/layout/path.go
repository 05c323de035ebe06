package layout

import "container/heap"

// ShortestPath runs A* over the room grid with 4-directional movement and
// a Manhattan heuristic. It returns the cell sequence from start to goal
// inclusive, or nil when no path exists or either endpoint is blocked.
func ShortestPath(l *Layout, start, goal Point) []Point {
	if !l.Contains(start) || !l.Contains(goal) {
		return nil
	}
	if l.Blocked(start) || l.Blocked(goal) {
		return nil
	}

	open := &pointHeap{}
	heap.Init(open)
	heap.Push(open, scoredPoint{point: start})

	cameFrom := make(map[Point]Point)
	gScore := map[Point]int{start: 0}

	for open.Len() > 0 {
		current := heap.Pop(open).(scoredPoint).point

		if current == goal {
			path := []Point{current}
			for {
				prev, ok := cameFrom[current]
				if !ok {
					break
				}
				current = prev
				path = append(path, current)
			}
			reverse(path)
			return path
		}

		for _, n := range neighbors(current) {
			if !l.Contains(n) || l.Blocked(n) {
				continue
			}
			tentative := gScore[current] + 1
			if g, seen := gScore[n]; seen && tentative >= g {
				continue
			}
			cameFrom[n] = current
			gScore[n] = tentative
			heap.Push(open, scoredPoint{
				point: n,
				score: tentative + manhattan(n, goal),
			})
		}
	}
	return nil
}

func manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func reverse(points []Point) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}

type scoredPoint struct {
	point Point
	score int
}

type pointHeap []scoredPoint

func (h pointHeap) Len() int            { return len(h) }
func (h pointHeap) Less(i, j int) bool  { return h[i].score < h[j].score }
func (h pointHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pointHeap) Push(x interface{}) { *h = append(*h, x.(scoredPoint)) }
func (h *pointHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

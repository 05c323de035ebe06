package layout

import "strings"

// Render draws the room as an ASCII map.
//
//	D = door (start)
//	B = rack cell
//	W = free cell
//	* = free cell on the path
//	G = goal cell
func Render(l *Layout, path []Point, goal Point) string {
	onPath := make(map[Point]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}

	var b strings.Builder
	for y := 0; y < l.Height; y++ {
		row := make([]string, 0, l.Width)
		for x := 0; x < l.Width; x++ {
			p := Point{X: x, Y: y}
			var ch string
			switch {
			case p == l.Door:
				ch = "D"
			case p == goal:
				ch = "G"
			case onPath[p] && !l.Blocked(p):
				ch = "*"
			case l.Blocked(p):
				ch = "B"
			default:
				ch = "W"
			}
			row = append(row, ch)
		}
		b.WriteString(strings.Join(row, " "))
		b.WriteString("\n")
	}
	return b.String()
}

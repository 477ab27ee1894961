package roadnet

import "fmt"

// Grid is a small in-memory Map + Oracle implementation used by tests
// and the synthetic demo dataset. It lays intersections out on an
// evenly-spaced rectangular grid and connects each to its
// four-neighbors with uniform-duration roads, which is enough to drive
// the kernel without depending on real OSM data.
type Grid struct {
	width, height int
	edgeDuration  int64 // seconds per grid edge
	roadsFrom     map[IntersectionID][]Road
	intersections []Intersection
}

// NewGrid builds a width x height grid with edgeDuration seconds per
// hop. Intersection ids are row-major: id = y*width + x.
func NewGrid(width, height int, edgeDuration int64) *Grid {
	g := &Grid{
		width:        width,
		height:       height,
		edgeDuration: edgeDuration,
		roadsFrom:    make(map[IntersectionID][]Road),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := g.idOf(x, y)
			g.intersections = append(g.intersections, Intersection{
				ID:  id,
				Lat: float64(y),
				Lon: float64(x),
			})
		}
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := g.idOf(x, y)
			for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				to := g.idOf(nx, ny)
				g.roadsFrom[id] = append(g.roadsFrom[id], Road{From: id, To: to, Duration: edgeDuration})
			}
		}
	}
	return g
}

func (g *Grid) idOf(x, y int) IntersectionID {
	return IntersectionID(y*g.width + x)
}

// Intersections implements Map.
func (g *Grid) Intersections() []Intersection {
	out := make([]Intersection, len(g.intersections))
	copy(out, g.intersections)
	return out
}

// RoadsFrom implements Map. Returns a copy so callers cannot mutate the
// grid's adjacency through the returned slice.
func (g *Grid) RoadsFrom(id IntersectionID) []Road {
	roads := g.roadsFrom[id]
	out := make([]Road, len(roads))
	copy(out, roads)
	return out
}

func (g *Grid) xy(id IntersectionID) (int, int) {
	return int(id) % g.width, int(id) / g.width
}

// TravelTime implements Oracle using Manhattan distance over the grid,
// scaled by edgeDuration, plus the within-road offsets of from/to. This
// is a reasonable stand-in for a precomputed all-pairs shortest-path
// oracle that still respects the LocationOnRoad contract.
func (g *Grid) TravelTime(from, to LocationOnRoad) int64 {
	fx, fy := g.xy(from.Road.To)
	tx, ty := g.xy(to.Road.From)
	dist := abs(fx-tx) + abs(fy-ty)
	remaining := from.Road.Duration - from.TravelTimeFromStart
	return remaining + int64(dist)*g.edgeDuration + to.TravelTimeFromStart
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Bounds reports the grid dimensions, useful for synthetic placement.
func (g *Grid) Bounds() (width, height int) { return g.width, g.height }

// String renders a short diagnostic description.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, edge=%ds)", g.width, g.height, g.edgeDuration)
}

package sphere

// Direction names one of the six neighbour slots of a field. Slot naming
// is local to the field: A's east neighbour may see A as its west one.
type Direction uint8

const (
	NW Direction = iota
	W
	SW
	SE
	E
	NE
)

var directionNames = [...]string{"nw", "w", "sw", "se", "e", "ne"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "?"
}

// Directions lists all slots in fan order, NE last so that pentagon
// iteration can stop early.
var Directions = [...]Direction{NW, W, SW, SE, E, NE}

// Adjacents holds the neighbours of one field. Pentagonal fields have no
// NE neighbour; HasNE is false and NE is the zero Index for them.
type Adjacents struct {
	NW, W, SW, SE, E Index
	NE               Index
	HasNE            bool
}

// At returns the neighbour in the given slot and whether it is present.
func (a Adjacents) At(dir Direction) (Index, bool) {
	switch dir {
	case NW:
		return a.NW, true
	case W:
		return a.W, true
	case SW:
		return a.SW, true
	case SE:
		return a.SE, true
	case E:
		return a.E, true
	case NE:
		return a.NE, a.HasNE
	}
	return Index{}, false
}

// Each calls f for every present neighbour in slot order.
func (a Adjacents) Each(f func(Direction, Index)) {
	for _, dir := range Directions {
		if idx, ok := a.At(dir); ok {
			f(dir, idx)
		}
	}
}

// Count returns the number of present neighbours: 5 for pentagons, 6
// otherwise.
func (a Adjacents) Count() int {
	if a.HasNE {
		return 6
	}
	return 5
}

// AdjacentsOf computes the neighbours of idx on a sphere with d
// divisions. The rules fold the five icosahedral sections onto each other
// so that fields on section seams resolve to the neighbouring section, the
// north pole connects to the first field of every section and the south
// pole to the last.
func AdjacentsOf(idx Index, d int) Adjacents {
	maxX := 2*d - 1
	maxY := d - 1

	switch idx.Kind {
	case KindNorth:
		// The pole touches the first field of every section.
		return Adjacents{
			NW: SXYIndex(0, 0, 0),
			W:  SXYIndex(1, 0, 0),
			SW: SXYIndex(2, 0, 0),
			SE: SXYIndex(3, 0, 0),
			E:  SXYIndex(4, 0, 0),
		}
	case KindSouth:
		return Adjacents{
			NW: SXYIndex(0, maxX, maxY),
			W:  SXYIndex(1, maxX, maxY),
			SW: SXYIndex(2, maxX, maxY),
			SE: SXYIndex(3, maxX, maxY),
			E:  SXYIndex(4, maxX, maxY),
		}
	}

	s, x, y := idx.S, idx.X, idx.Y
	nextS := (s + 1) % 5
	prevS := (s + 4) % 5
	pent := y == 0 && (x+1)%d == 0

	var a Adjacents

	switch {
	case x > 0:
		a.NW = SXYIndex(s, x-1, y)
	case y == 0:
		a.NW = NorthIndex()
	default:
		a.NW = SXYIndex(prevS, y-1, 0)
	}

	switch {
	case x == 0:
		a.W = SXYIndex(prevS, y, 0)
	case y == maxY && x > d:
		a.W = SXYIndex(prevS, maxX, x-d)
	case y == maxY:
		a.W = SXYIndex(prevS, x+d-1, 0)
	default:
		a.W = SXYIndex(s, x-1, y+1)
	}

	switch {
	case y < maxY:
		a.SW = SXYIndex(s, x, y+1)
	case x == maxX:
		a.SW = SouthIndex()
	case x >= d:
		a.SW = SXYIndex(prevS, maxX, x-d+1)
	default:
		a.SW = SXYIndex(prevS, x+d, 0)
	}

	switch {
	case pent && x == d-1:
		a.SE = SXYIndex(s, x+1, 0)
	case pent && x == maxX:
		a.SE = SXYIndex(nextS, d, maxY)
	case x == maxX:
		a.SE = SXYIndex(nextS, y+d, maxY)
	default:
		a.SE = SXYIndex(s, x+1, y)
	}

	switch {
	case pent && x == d-1:
		a.E = SXYIndex(nextS, 0, maxY)
	case pent && x == maxX:
		a.E = SXYIndex(nextS, d-1, maxY)
	case x == maxX:
		a.E = SXYIndex(nextS, y+d-1, maxY)
	case y == 0 && x < d:
		a.E = SXYIndex(nextS, 0, x+1)
	case y == 0:
		a.E = SXYIndex(nextS, x-d+1, maxY)
	default:
		a.E = SXYIndex(s, x+1, y-1)
	}

	switch {
	case pent:
		// Pentagons have no NE neighbour.
	case y > 0:
		a.NE = SXYIndex(s, x, y-1)
		a.HasNE = true
	case x < d:
		a.NE = SXYIndex(nextS, 0, x)
		a.HasNE = true
	default:
		a.NE = SXYIndex(nextS, x-d, maxY)
		a.HasNE = true
	}

	return a
}

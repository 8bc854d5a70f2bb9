package physics

import (
	"math"

	"github.com/zeusync/ecosim/pkg/generic"
)

// CellKey identifies a grid cell.
type CellKey struct {
	X int64
	Y int64
}

// Grid is a uniform spatial hash for broad-phase queries. It stores body
// references only; Clear must run before each tick's inserts and bodies must
// outlive the queries made against them.
//
// Mutation is single-threaded. Once every body of the tick has been inserted,
// Neighbors, NeighborsInto and QueryCircle may be called concurrently.
type Grid struct {
	cellSize float64
	cells    map[CellKey][]*Body
	count    int
	seen     *generic.Pool[map[*Body]struct{}]
}

// NewGrid creates a grid. cellSize should be 2-3x the typical body diameter
// so most bodies cover a single cell.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[CellKey][]*Body),
		seen: generic.NewPool(
			func() map[*Body]struct{} { return make(map[*Body]struct{}, 16) },
			func(m map[*Body]struct{}) { clear(m) },
		),
	}
}

func (g *Grid) CellSize() float64 { return g.cellSize }

// Key maps a point to its cell. Points on a cell edge belong to the cell
// above and to the right.
func (g *Grid) Key(x, y float64) CellKey {
	return CellKey{
		X: int64(math.Floor(x / g.cellSize)),
		Y: int64(math.Floor(y / g.cellSize)),
	}
}

// Clear empties every cell. Slice capacity is kept for cells that were used
// during the last tick; cells that stayed empty are dropped.
func (g *Grid) Clear() {
	for k, bucket := range g.cells {
		if len(bucket) == 0 {
			delete(g.cells, k)
			continue
		}
		clear(bucket)
		g.cells[k] = bucket[:0]
	}
	g.count = 0
}

// Insert adds b to every cell its bounding square overlaps.
func (g *Grid) Insert(b *Body) {
	lo, hi := g.span(b.Position.X, b.Position.Y, b.Radius)
	for cx := lo.X; cx <= hi.X; cx++ {
		for cy := lo.Y; cy <= hi.Y; cy++ {
			k := CellKey{X: cx, Y: cy}
			g.cells[k] = append(g.cells[k], b)
		}
	}
	g.count++
}

// InsertAll inserts every body in order.
func (g *Grid) InsertAll(bodies []*Body) {
	for _, b := range bodies {
		g.Insert(b)
	}
}

// Neighbors returns every other body sharing at least one cell with b. Each
// body appears once and b itself is never returned. Order is unspecified.
func (g *Grid) Neighbors(b *Body) []*Body {
	return g.NeighborsInto(b, nil)
}

// NeighborsInto is Neighbors appending into dst.
func (g *Grid) NeighborsInto(b *Body, dst []*Body) []*Body {
	seen := g.seen.Get()
	defer g.seen.Put(seen)

	seen[b] = struct{}{}
	lo, hi := g.span(b.Position.X, b.Position.Y, b.Radius)
	for cx := lo.X; cx <= hi.X; cx++ {
		for cy := lo.Y; cy <= hi.Y; cy++ {
			for _, other := range g.cells[CellKey{X: cx, Y: cy}] {
				if _, dup := seen[other]; dup {
					continue
				}
				seen[other] = struct{}{}
				dst = append(dst, other)
			}
		}
	}
	return dst
}

// QueryCircle returns bodies whose circle intersects the query circle.
// Cell membership is only a candidate filter; the exact distance test decides.
func (g *Grid) QueryCircle(x, y, radius float64) []*Body {
	var out []*Body
	lo, hi := g.span(x, y, radius)
	g.seen.Borrow(func(seen map[*Body]struct{}) {
		for cx := lo.X; cx <= hi.X; cx++ {
			for cy := lo.Y; cy <= hi.Y; cy++ {
				for _, b := range g.cells[CellKey{X: cx, Y: cy}] {
					if _, dup := seen[b]; dup {
						continue
					}
					seen[b] = struct{}{}
					dx := b.Position.X - x
					dy := b.Position.Y - y
					reach := radius + b.Radius
					if dx*dx+dy*dy <= reach*reach {
						out = append(out, b)
					}
				}
			}
		}
	})
	return out
}

// Len is the number of bodies inserted since the last Clear.
func (g *Grid) Len() int { return g.count }

// Cells is the number of occupied cells.
func (g *Grid) Cells() int {
	n := 0
	for _, bucket := range g.cells {
		if len(bucket) > 0 {
			n++
		}
	}
	return n
}

// CellBodies returns the bodies stored in cell k. The slice is owned by the grid.
func (g *Grid) CellBodies(k CellKey) []*Body { return g.cells[k] }

func (g *Grid) span(x, y, r float64) (lo, hi CellKey) {
	return g.Key(x-r, y-r), g.Key(x+r, y+r)
}

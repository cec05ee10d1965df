package puzzle

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange       = errors.New("cell out of range")
	ErrInvalidDimension = errors.New("invalid grid dimension")
	ErrDuplicateLabel   = errors.New("duplicate label")
)

// MaxBound is the largest size any workspace may configure.
const MaxBound = 50

type Kind int

const (
	White Kind = iota
	Black
)

func (k Kind) String() string {
	if k == Black {
		return "black"
	}
	return "white"
}

// Counts holds the run lengths derived for a labeled cell. Zero means the run
// is a single cell and therefore not a slot.
type Counts struct {
	Across int
	Down   int
}

type Cell struct {
	Kind   Kind
	Circle bool
	Letter string
	Label  int
	Counts *Counts
}

func (c Cell) IsBlack() bool { return c.Kind == Black }

func (c Cell) clone() Cell {
	if c.Counts != nil {
		counts := *c.Counts
		c.Counts = &counts
	}
	return c
}

type Position struct {
	Row int
	Col int
}

type Bounds struct {
	Min int
	Max int
}

var DefaultBounds = Bounds{Min: 3, Max: 20}

// BoundsWithMax returns the default bounds capped at limit. Values outside
// [DefaultBounds.Min, MaxBound] fall back to DefaultBounds.
func BoundsWithMax(limit int) Bounds {
	if limit < DefaultBounds.Min || limit > MaxBound {
		return DefaultBounds
	}
	return Bounds{Min: DefaultBounds.Min, Max: limit}
}

func (b Bounds) Check(rows, cols int) error {
	if rows < b.Min || rows > b.Max {
		return fmt.Errorf("rows %d not in [%d,%d]: %w", rows, b.Min, b.Max, ErrInvalidDimension)
	}
	if cols < b.Min || cols > b.Max {
		return fmt.Errorf("cols %d not in [%d,%d]: %w", cols, b.Min, b.Max, ErrInvalidDimension)
	}
	return nil
}

// Grid is a row-major rows×cols matrix of cells.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

func New(rows, cols int, bounds Bounds) (*Grid, error) {
	if err := bounds.Check(rows, cols); err != nil {
		return nil, err
	}
	return newGrid(rows, cols), nil
}

func newGrid(rows, cols int) *Grid {
	return &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

func (g *Grid) CellAt(r, c int) (Cell, error) {
	if !g.InBounds(r, c) {
		return Cell{}, fmt.Errorf("cell (%d,%d) in %dx%d grid: %w", r, c, g.rows, g.cols, ErrOutOfRange)
	}
	return g.cells[r*g.cols+c].clone(), nil
}

func (g *Grid) at(r, c int) *Cell {
	return &g.cells[r*g.cols+c]
}

// isWhite reports whether (r,c) is inside the grid and not Black.
func (g *Grid) isWhite(r, c int) bool {
	return g.InBounds(r, c) && g.at(r, c).Kind == White
}

// Resize builds a new grid of the requested size. Cells whose coordinates
// exist in both grids keep their state; labels are never renumbered.
func (g *Grid) Resize(rows, cols int, bounds Bounds) (*Grid, error) {
	if err := bounds.Check(rows, cols); err != nil {
		return nil, err
	}
	out := newGrid(rows, cols)
	for r := 0; r < min(rows, g.rows); r++ {
		for c := 0; c < min(cols, g.cols); c++ {
			*out.at(r, c) = g.at(r, c).clone()
		}
	}
	return out, nil
}

func (g *Grid) Clone() *Grid {
	out := &Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	for i, cell := range g.cells {
		out.cells[i] = cell.clone()
	}
	return out
}

// MaxLabel returns the highest label present, or 0.
func (g *Grid) MaxLabel() int {
	highest := 0
	for _, cell := range g.cells {
		if cell.Label > highest {
			highest = cell.Label
		}
	}
	return highest
}

func (g *Grid) hasLabel(n int) bool {
	for _, cell := range g.cells {
		if cell.Label == n {
			return true
		}
	}
	return false
}

func (g *Grid) checkLabels() error {
	seen := map[int]Position{}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			label := g.at(r, c).Label
			if label == 0 {
				continue
			}
			if prev, ok := seen[label]; ok {
				return fmt.Errorf("label %d at (%d,%d) and (%d,%d): %w", label, prev.Row, prev.Col, r, c, ErrDuplicateLabel)
			}
			seen[label] = Position{Row: r, Col: c}
		}
	}
	return nil
}

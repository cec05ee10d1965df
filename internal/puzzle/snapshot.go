package puzzle

import "fmt"

// Snapshot is the plain structural form of a Puzzle used for persistence.
// Cell field names match the grid the browser editor stored.
type Snapshot struct {
	Rows        int               `json:"rows"`
	Cols        int               `json:"cols"`
	Grid        [][]CellSnapshot  `json:"grid"`
	NextLabel   int               `json:"nextLabel"`
	CluesAcross map[string]string `json:"cluesAcross"`
	CluesDown   map[string]string `json:"cluesDown"`
}

type CellSnapshot struct {
	Type      string          `json:"type"`
	IsDouble  bool            `json:"isDouble"`
	Text      string          `json:"text"`
	Number    *int            `json:"number"`
	AutoCount *CountsSnapshot `json:"autoCount"`
}

type CountsSnapshot struct {
	H *int `json:"h"`
	V *int `json:"v"`
}

func (p *Puzzle) Snapshot() Snapshot {
	snap := Snapshot{
		Rows:        p.grid.rows,
		Cols:        p.grid.cols,
		Grid:        make([][]CellSnapshot, p.grid.rows),
		NextLabel:   p.nextLabel,
		CluesAcross: map[string]string{},
		CluesDown:   map[string]string{},
	}
	for r := 0; r < p.grid.rows; r++ {
		row := make([]CellSnapshot, p.grid.cols)
		for c := 0; c < p.grid.cols; c++ {
			row[c] = snapshotCell(*p.grid.at(r, c))
		}
		snap.Grid[r] = row
	}
	for k, v := range p.clues.Across {
		snap.CluesAcross[k] = v
	}
	for k, v := range p.clues.Down {
		snap.CluesDown[k] = v
	}
	return snap
}

func snapshotCell(cell Cell) CellSnapshot {
	out := CellSnapshot{Type: cell.Kind.String(), IsDouble: cell.Circle, Text: cell.Letter}
	if cell.Label > 0 {
		label := cell.Label
		out.Number = &label
	}
	if cell.Counts != nil {
		out.AutoCount = &CountsSnapshot{H: optional(cell.Counts.Across), V: optional(cell.Counts.Down)}
	}
	return out
}

func optional(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

// Restore rebuilds a Puzzle from snap. Ragged or missing rows are padded
// with default cells, Black cells are normalised and derived counts are
// recomputed rather than trusted.
func Restore(snap Snapshot, bounds Bounds) (*Puzzle, error) {
	if err := bounds.Check(snap.Rows, snap.Cols); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	g := newGrid(snap.Rows, snap.Cols)
	for r := 0; r < snap.Rows && r < len(snap.Grid); r++ {
		for c := 0; c < snap.Cols && c < len(snap.Grid[r]); c++ {
			*g.at(r, c) = restoreCell(snap.Grid[r][c])
		}
	}
	if err := g.checkLabels(); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	// A lowered counter is a user override; Apply skips numbers in use.
	next := max(snap.NextLabel, 1)

	p := &Puzzle{grid: g, bounds: bounds, nextLabel: next, clues: NewClues()}
	for k, v := range snap.CluesAcross {
		p.clues.Across[k] = NormalizeClue(v)
	}
	for k, v := range snap.CluesDown {
		p.clues.Down[k] = NormalizeClue(v)
	}
	p.derive()
	return p, nil
}

func restoreCell(s CellSnapshot) Cell {
	if s.Type == "black" {
		return Cell{Kind: Black}
	}
	cell := Cell{Kind: White, Circle: s.IsDouble, Letter: lastGrapheme(s.Text)}
	if s.Number != nil && *s.Number > 0 {
		cell.Label = *s.Number
	}
	return cell
}

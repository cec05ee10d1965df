package puzzle

import (
	"fmt"
	"strings"
)

// ClueMap is keyed by the slot number exactly as entered or imported.
type ClueMap map[string]string

type Clues struct {
	Across ClueMap
	Down   ClueMap
}

func NewClues() Clues {
	return Clues{Across: ClueMap{}, Down: ClueMap{}}
}

func (c Clues) Map(d Direction) ClueMap {
	if d == Down {
		return c.Down
	}
	return c.Across
}

func (c Clues) clone() Clues {
	out := NewClues()
	for k, v := range c.Across {
		out.Across[k] = v
	}
	for k, v := range c.Down {
		out.Down[k] = v
	}
	return out
}

// Puzzle is the editable state: the grid, the label counter, the clues and
// the slots derived from the grid after the last mutation.
type Puzzle struct {
	grid      *Grid
	bounds    Bounds
	nextLabel int
	clues     Clues
	across    []Slot
	down      []Slot
}

func NewPuzzle(rows, cols int, bounds Bounds) (*Puzzle, error) {
	g, err := New(rows, cols, bounds)
	if err != nil {
		return nil, err
	}
	p := &Puzzle{grid: g, bounds: bounds, nextLabel: 1, clues: NewClues()}
	p.derive()
	return p, nil
}

func (p *Puzzle) derive() {
	Recount(p.grid)
	p.across, p.down = ExtractSlots(p.grid)
}

func (p *Puzzle) Rows() int      { return p.grid.rows }
func (p *Puzzle) Cols() int      { return p.grid.cols }
func (p *Puzzle) Bounds() Bounds { return p.bounds }
func (p *Puzzle) NextLabel() int { return p.nextLabel }

// Grid returns a detached copy of the current grid.
func (p *Puzzle) Grid() *Grid { return p.grid.Clone() }

func (p *Puzzle) CellAt(r, c int) (Cell, error) { return p.grid.CellAt(r, c) }

func (p *Puzzle) Across() []Slot { return copySlots(p.across) }
func (p *Puzzle) Down() []Slot   { return copySlots(p.down) }

func copySlots(in []Slot) []Slot {
	out := make([]Slot, len(in))
	copy(out, in)
	return out
}

func (p *Puzzle) Slots(d Direction) []Slot {
	if d == Down {
		return p.Down()
	}
	return p.Across()
}

func (p *Puzzle) Resize(rows, cols int) error {
	g, err := p.grid.Resize(rows, cols, p.bounds)
	if err != nil {
		return err
	}
	p.grid = g
	p.derive()
	return nil
}

// SetNextLabel is the explicit user override for the label counter; it is
// the only way the counter can go down.
func (p *Puzzle) SetNextLabel(n int) error {
	if n < 1 {
		return fmt.Errorf("next label %d: must be positive", n)
	}
	p.nextLabel = n
	return nil
}

// Clues returns a copy of the clue maps.
func (p *Puzzle) Clues() Clues { return p.clues.clone() }

func (p *Puzzle) Clue(d Direction, number int) string {
	return p.clues.Map(d)[fmt.Sprint(number)]
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// NormalizeClue flattens line breaks so a clue always fits one CSV row.
func NormalizeClue(text string) string {
	return lineBreaks.Replace(text)
}

// SetClue stores text for the slot currently numbered number in direction d.
// Empty text removes the entry.
func (p *Puzzle) SetClue(d Direction, number int, text string) error {
	found := false
	for _, s := range p.Slots(d) {
		if s.Number == number {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no %s slot numbered %d", d, number)
	}
	key := fmt.Sprint(number)
	text = NormalizeClue(text)
	if text == "" {
		delete(p.clues.Map(d), key)
		return nil
	}
	p.clues.Map(d)[key] = text
	return nil
}

// MergeClues overwrites entries present in src and leaves the rest alone.
func (p *Puzzle) MergeClues(src Clues) {
	for k, v := range src.Across {
		p.clues.Across[k] = NormalizeClue(v)
	}
	for k, v := range src.Down {
		p.clues.Down[k] = NormalizeClue(v)
	}
}

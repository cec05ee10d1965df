package puzzle

import (
	"sort"
	"strings"
)

// Placeholder stands in for an empty letter inside a slot word.
const Placeholder = "□"

type Direction int

const (
	Across Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "Down"
	}
	return "Across"
}

type Slot struct {
	Number int    `json:"number"`
	Word   string `json:"word"`
	Length int    `json:"length"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// Recount recomputes Counts for every cell from scratch.
func Recount(g *Grid) {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			cell := g.at(r, c)
			cell.Counts = nil
			if cell.Kind == Black || cell.Label == 0 {
				continue
			}
			h := g.runLength(r, c, 0, 1)
			v := g.runLength(r, c, 1, 0)
			counts := &Counts{}
			if h > 1 {
				counts.Across = h
			}
			if v > 1 {
				counts.Down = v
			}
			cell.Counts = counts
		}
	}
}

func (g *Grid) runLength(r, c, dr, dc int) int {
	n := 0
	for g.isWhite(r, c) {
		n++
		r += dr
		c += dc
	}
	return n
}

// ExtractSlots returns the across and down clue slots, each sorted by number.
func ExtractSlots(g *Grid) (across, down []Slot) {
	across = []Slot{}
	down = []Slot{}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			cell := g.at(r, c)
			if cell.Kind == Black || cell.Label == 0 {
				continue
			}
			if !g.isWhite(r, c-1) {
				if s, ok := g.slotFrom(r, c, 0, 1); ok {
					across = append(across, s)
				}
			}
			if !g.isWhite(r-1, c) {
				if s, ok := g.slotFrom(r, c, 1, 0); ok {
					down = append(down, s)
				}
			}
		}
	}
	// Row-major emission order breaks ties between duplicate labels.
	sort.SliceStable(across, func(i, j int) bool { return across[i].Number < across[j].Number })
	sort.SliceStable(down, func(i, j int) bool { return down[i].Number < down[j].Number })
	return across, down
}

func (g *Grid) slotFrom(r, c, dr, dc int) (Slot, bool) {
	start := Position{Row: r, Col: c}
	label := g.at(r, c).Label
	var b strings.Builder
	n := 0
	for g.isWhite(r, c) {
		letter := g.at(r, c).Letter
		if letter == "" {
			letter = Placeholder
		}
		b.WriteString(letter)
		n++
		r += dr
		c += dc
	}
	if n <= 1 {
		return Slot{}, false
	}
	return Slot{Number: label, Word: b.String(), Length: n, Row: start.Row, Col: start.Col}, true
}

// SlotAt returns the slot in direction d that covers (r,c), if any.
func SlotAt(slots []Slot, d Direction, r, c int) (Slot, bool) {
	for _, s := range slots {
		if d == Across && s.Row == r && c >= s.Col && c < s.Col+s.Length {
			return s, true
		}
		if d == Down && s.Col == c && r >= s.Row && r < s.Row+s.Length {
			return s, true
		}
	}
	return Slot{}, false
}

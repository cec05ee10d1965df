package puzzle

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

type Mode int

const (
	ModeBlack Mode = iota
	ModeDouble
	ModeLabel
	ModeLetter
)

var modeNames = map[Mode]string{
	ModeBlack:  "black",
	ModeDouble: "double",
	ModeLabel:  "label",
	ModeLetter: "letter",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Next cycles through the modes in display order.
func (m Mode) Next() Mode {
	return (m + 1) % (ModeLetter + 1)
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black":
		return ModeBlack, nil
	case "double", "circle":
		return ModeDouble, nil
	case "label", "number":
		return ModeLabel, nil
	case "letter", "text":
		return ModeLetter, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want black, double, label or letter)", s)
}

// Effect describes what an edit did. Advance, when set, asks the presentation
// layer to move input focus to that cell.
type Effect struct {
	Changed bool
	Advance *Position
}

// Apply runs one pointer action under mode at (r,c). input is only read in
// letter mode.
func (p *Puzzle) Apply(mode Mode, r, c int, input string) (Effect, error) {
	if !p.grid.InBounds(r, c) {
		return Effect{}, fmt.Errorf("apply %s at (%d,%d): %w", mode, r, c, ErrOutOfRange)
	}
	cell := p.grid.at(r, c)
	var eff Effect

	switch mode {
	case ModeBlack:
		if cell.Kind == Black {
			cell.Kind = White
		} else {
			*cell = Cell{Kind: Black}
		}
		eff.Changed = true
	case ModeDouble:
		if cell.Kind == White {
			cell.Circle = !cell.Circle
			eff.Changed = true
		}
	case ModeLabel:
		if cell.Kind == White {
			if cell.Label == 0 {
				n := p.nextLabel
				for p.grid.hasLabel(n) {
					n++
				}
				cell.Label = n
				p.nextLabel = n + 1
			} else {
				cell.Label = 0
			}
			eff.Changed = true
		}
	case ModeLetter:
		if cell.Kind == White {
			letter := lastGrapheme(input)
			eff.Changed = cell.Letter != letter
			cell.Letter = letter
			if letter != "" && p.grid.isWhite(r, c+1) {
				eff.Advance = &Position{Row: r, Col: c + 1}
			}
		}
	default:
		return Effect{}, fmt.Errorf("apply at (%d,%d): unknown mode %d", r, c, int(mode))
	}

	if eff.Changed {
		p.derive()
	}
	return eff, nil
}

// lastGrapheme keeps only the final user-perceived character of s.
func lastGrapheme(s string) string {
	last := ""
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		last = cluster
	}
	return last
}

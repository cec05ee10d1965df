package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
)

const cellWidth = 3

type rect struct {
	y int
	x int
	h int
	w int
}

type layout struct {
	grid  rect
	clues rect
	bank  rect
}

type listState struct {
	selected int
	scroll   int
}

type row struct {
	label    string
	dim      bool
	bold     bool
	selected bool
	focused  bool
}

// computeLayout puts the grid on the left and stacks the clue and bank
// panels on the right. Narrow terminals get the panels below the grid.
func computeLayout(screen tcell.Screen, state *uiState) layout {
	maxX, maxY := screen.Size()
	usableH := max(1, maxY-1)
	gridW := min(maxX, state.p.Cols()*cellWidth+2)
	gridH := min(usableH, state.p.Rows()+2)

	var lay layout
	if maxX-gridW >= 30 {
		lay.grid = rect{y: 0, x: 0, h: gridH, w: gridW}
		side := rect{y: 0, x: gridW, h: usableH, w: maxX - gridW}
		lay.clues, lay.bank = splitPanel(side, state.bankOpen)
		return lay
	}
	lay.grid = rect{y: 0, x: 0, h: gridH, w: gridW}
	below := rect{y: gridH, x: 0, h: max(0, usableH-gridH), w: maxX}
	lay.clues, lay.bank = splitPanel(below, state.bankOpen)
	return lay
}

func splitPanel(r rect, bankOpen bool) (clues, bank rect) {
	if !bankOpen {
		return r, rect{}
	}
	top := max(3, r.h/2)
	clues = rect{y: r.y, x: r.x, h: top, w: r.w}
	bank = rect{y: r.y + top, x: r.x, h: max(0, r.h-top), w: r.w}
	return clues, bank
}

func draw(screen tcell.Screen, state *uiState, opts Options) {
	screen.Clear()
	lay := computeLayout(screen, state)

	title := "grid"
	if opts.Name != "" {
		title = opts.Name
	}
	drawBox(screen, lay.grid, fmt.Sprintf("%s %dx%d", title, state.p.Rows(), state.p.Cols()), state.focus == focusGrid)
	drawGrid(screen, lay.grid, state)

	items := buildClueItems(state.p)
	state.clueState.clamp(len(items))
	state.clueState.ensureVisible(lay.clues.h-2, len(items))
	drawBox(screen, lay.clues, "clues", state.focus == focusClues)
	drawList(screen, lay.clues, renderClueRows(state, items, lay.clues.h-2))

	if state.bankOpen {
		state.bankState.clamp(len(state.bankResults))
		state.bankState.ensureVisible(lay.bank.h-2, len(state.bankResults))
		bankTitle := fmt.Sprintf("bank %d: %s", state.bankLength, patternLabel(state.bankPattern))
		drawBox(screen, lay.bank, bankTitle, state.focus == focusBank)
		drawList(screen, lay.bank, renderBankRows(state, lay.bank.h-2))
	}

	drawStatus(screen, state, opts)
	screen.Show()
}

func drawGrid(screen tcell.Screen, r rect, state *uiState) {
	p := state.p
	for ri := 0; ri < p.Rows() && ri < r.h-2; ri++ {
		for ci := 0; ci < p.Cols(); ci++ {
			x := r.x + 1 + ci*cellWidth
			if x+cellWidth > r.x+r.w-1 {
				break
			}
			cell, err := p.CellAt(ri, ci)
			if err != nil {
				continue
			}
			text, style := renderCell(cell)
			if state.cursor.Row == ri && state.cursor.Col == ci {
				style = style.Reverse(true)
				if state.focus == focusGrid {
					style = style.Bold(true)
				}
			}
			writeText(screen, x, r.y+1+ri, padRight(truncate(text, cellWidth), cellWidth), style)
		}
	}
}

func renderCell(cell puzzle.Cell) (string, tcell.Style) {
	style := tcell.StyleDefault
	if cell.IsBlack() {
		return strings.Repeat("█", cellWidth), style
	}
	if cell.Label > 0 {
		style = style.Underline(true)
	}
	body := cell.Letter
	if body == "" && cell.Label > 0 {
		return fmt.Sprintf("%-3d", cell.Label), style.Dim(true)
	}
	if body == "" {
		body = "·"
		style = style.Dim(true)
	}
	if cell.Circle {
		return "(" + body + ")", style
	}
	if displayWidth(body) > 1 {
		return body, style
	}
	return " " + body + " ", style
}

func renderClueRows(state *uiState, items []clueItem, viewH int) []row {
	rows := make([]row, 0, min(len(items), max(0, viewH)))
	start := clamp(state.clueState.scroll, 0, max(0, len(items)))
	end := min(len(items), start+max(0, viewH))
	for i := start; i < end; i++ {
		item := items[i]
		arrow := "→"
		if item.dir == puzzle.Down {
			arrow = "↓"
		}
		clue := state.p.Clue(item.dir, item.slot.Number)
		label := fmt.Sprintf("%s%d %s (%d)", arrow, item.slot.Number, item.slot.Word, item.slot.Length)
		if clue != "" {
			label += "  " + clue
		}
		rows = append(rows, row{label: label, dim: clue == ""})
	}
	return applySelection(rows, state.focus == focusClues, listState{selected: state.clueState.selected - start})
}

func renderBankRows(state *uiState, viewH int) []row {
	if len(state.bankResults) == 0 {
		return []row{{label: "no matching questions", dim: true}}
	}
	rows := make([]row, 0, min(len(state.bankResults), max(0, viewH)))
	start := clamp(state.bankState.scroll, 0, max(0, len(state.bankResults)))
	end := min(len(state.bankResults), start+max(0, viewH))
	for i := start; i < end; i++ {
		q := state.bankResults[i]
		rows = append(rows, row{label: fmt.Sprintf("%s  %s  [%s/%s]", q.Word, q.Clue, q.Genre, q.Difficulty)})
	}
	return applySelection(rows, state.focus == focusBank, listState{selected: state.bankState.selected - start})
}

func patternLabel(pattern []string) string {
	var b strings.Builder
	for _, ch := range pattern {
		if ch == "" {
			ch = puzzle.Placeholder
		}
		b.WriteString(ch)
	}
	return b.String()
}

func drawStatus(screen tcell.Screen, state *uiState, opts Options) {
	w, h := screen.Size()
	if h <= 0 {
		return
	}
	y := h - 1
	base := tcell.StyleDefault.Reverse(true)
	writeText(screen, 0, y, padRight("", w), base)

	if state.inputMode == "clue" {
		t := state.editTarget
		prompt := fmt.Sprintf("%s %d: %s_", t.dir, t.slot.Number, state.inputBuffer)
		writeText(screen, 0, y, truncate(prompt, w), base.Bold(true))
		return
	}

	left := fmt.Sprintf("[%s] next:%d  %s", state.mode, state.p.NextLabel(), cursorInfo(state))
	if state.dirty {
		left += "  *"
	}
	if state.message != "" {
		left += "  " + state.message
	}
	right := versionLabel(opts.Version)
	leftW := max(0, w-displayWidth(right)-1)
	writeText(screen, 0, y, truncate(left, leftW), base)
	writeText(screen, max(0, w-displayWidth(right)), y, truncate(right, w), base.Bold(true))
}

func cursorInfo(state *uiState) string {
	cell, err := state.p.CellAt(state.cursor.Row, state.cursor.Col)
	if err != nil {
		return ""
	}
	info := fmt.Sprintf("(%d,%d)", state.cursor.Row, state.cursor.Col)
	if cell.Label > 0 {
		info += fmt.Sprintf(" #%d", cell.Label)
	}
	if cell.Counts != nil {
		if cell.Counts.Across > 0 {
			info += fmt.Sprintf(" →%d", cell.Counts.Across)
		}
		if cell.Counts.Down > 0 {
			info += fmt.Sprintf(" ↓%d", cell.Counts.Down)
		}
	}
	return info
}

func applySelection(rows []row, focused bool, state listState) []row {
	if len(rows) == 0 {
		return rows
	}
	state.clamp(len(rows))
	rows[state.selected].selected = true
	rows[state.selected].focused = focused
	rows[state.selected].dim = false
	return rows
}

func applyListNavigation(state *listState, nItems int, viewH int, ev *tcell.EventKey) {
	if nItems <= 0 {
		state.selected = 0
		state.scroll = 0
		return
	}
	switch ev.Key() {
	case tcell.KeyUp:
		state.selected = clamp(state.selected-1, 0, nItems-1)
	case tcell.KeyDown:
		state.selected = clamp(state.selected+1, 0, nItems-1)
	case tcell.KeyPgUp:
		state.selected = clamp(state.selected-max(1, viewH), 0, nItems-1)
	case tcell.KeyPgDn:
		state.selected = clamp(state.selected+max(1, viewH), 0, nItems-1)
	case tcell.KeyHome:
		state.selected = 0
	case tcell.KeyEnd:
		state.selected = nItems - 1
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k', 'K':
			state.selected = clamp(state.selected-1, 0, nItems-1)
		case 'j', 'J':
			state.selected = clamp(state.selected+1, 0, nItems-1)
		default:
			return
		}
	default:
		return
	}
	state.ensureVisible(viewH, nItems)
}

func (s *listState) clamp(nItems int) {
	if nItems <= 0 {
		s.selected = 0
		s.scroll = 0
		return
	}
	s.selected = clamp(s.selected, 0, nItems-1)
	s.scroll = clamp(s.scroll, 0, max(0, nItems-1))
}

func (s *listState) ensureVisible(viewH int, nItems int) {
	if nItems <= 0 || viewH <= 0 {
		s.scroll = 0
		return
	}
	maxScroll := max(0, nItems-viewH)
	if s.selected < s.scroll {
		s.scroll = s.selected
	} else if s.selected >= s.scroll+viewH {
		s.scroll = s.selected - viewH + 1
	}
	s.scroll = clamp(s.scroll, 0, maxScroll)
}

func drawBox(screen tcell.Screen, r rect, title string, focused bool) {
	if r.w <= 1 || r.h <= 1 {
		return
	}
	borderStyle := tcell.StyleDefault
	if focused {
		borderStyle = borderStyle.Bold(true)
	} else {
		borderStyle = borderStyle.Dim(true)
	}
	for x := r.x + 1; x < r.x+r.w-1; x++ {
		screen.SetContent(x, r.y, tcell.RuneHLine, nil, borderStyle)
		screen.SetContent(x, r.y+r.h-1, tcell.RuneHLine, nil, borderStyle)
	}
	for y := r.y + 1; y < r.y+r.h-1; y++ {
		screen.SetContent(r.x, y, tcell.RuneVLine, nil, borderStyle)
		screen.SetContent(r.x+r.w-1, y, tcell.RuneVLine, nil, borderStyle)
	}
	screen.SetContent(r.x, r.y, tcell.RuneULCorner, nil, borderStyle)
	screen.SetContent(r.x+r.w-1, r.y, tcell.RuneURCorner, nil, borderStyle)
	screen.SetContent(r.x, r.y+r.h-1, tcell.RuneLLCorner, nil, borderStyle)
	screen.SetContent(r.x+r.w-1, r.y+r.h-1, tcell.RuneLRCorner, nil, borderStyle)

	titleStyle := tcell.StyleDefault.Reverse(true)
	if focused {
		titleStyle = titleStyle.Bold(true)
		title = "> " + title + " <"
	} else {
		title = " " + title + " "
	}
	maxTitleWidth := max(0, r.w-2)
	title = truncate(title, maxTitleWidth)
	titleX := r.x + 1 + max(0, (maxTitleWidth-displayWidth(title))/2)
	writeText(screen, titleX, r.y, title, titleStyle)
}

func drawList(screen tcell.Screen, r rect, rows []row) {
	if r.h < 3 || r.w < 4 {
		return
	}
	innerH := r.h - 2
	innerW := r.w - 2
	for i := 0; i < innerH && i < len(rows); i++ {
		rw := rows[i]
		style := tcell.StyleDefault
		if rw.bold {
			style = style.Bold(true)
		}
		if rw.selected {
			style = style.Reverse(true)
			if rw.focused {
				style = style.Bold(true)
			} else {
				style = style.Dim(true)
			}
		} else if rw.dim {
			style = style.Dim(true)
		}
		writeText(screen, r.x+1, r.y+1+i, padRight(truncate(rw.label, innerW), innerW), style)
	}
}

func writeText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	offset := 0
	for _, ch := range text {
		width := runewidth.RuneWidth(ch)
		if width == 0 {
			continue
		}
		screen.SetContent(x+offset, y, ch, nil, style)
		offset += width
	}
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if displayWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "")
}

func padRight(s string, width int) string {
	if displayWidth(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-displayWidth(s))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

func versionLabel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "dev") {
		return "dev"
	}
	if strings.HasPrefix(strings.ToLower(v), "v") {
		return v
	}
	return "v" + v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/baaaaaaaka/xword-builder/internal/bank"
	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
)

var errQuit = errors.New("quit")

var newScreen = tcell.NewScreen

type Options struct {
	Puzzle    *puzzle.Puzzle
	Name      string
	Questions []bank.Question
	Version   string

	// Save persists the puzzle; it is called on Ctrl-S and on quit when
	// there are unsaved edits.
	Save func(*puzzle.Puzzle) error
}

type uiEvent struct {
	kind string
}

const (
	focusGrid  = "grid"
	focusClues = "clues"
	focusBank  = "bank"
)

type clueItem struct {
	dir  puzzle.Direction
	slot puzzle.Slot
}

type uiState struct {
	p      *puzzle.Puzzle
	mode   puzzle.Mode
	cursor puzzle.Position
	focus  string

	clueState listState
	bankState listState

	inputMode   string
	inputBuffer string
	editTarget  clueItem

	bankOpen    bool
	bankLength  int
	bankPattern []string
	bankResults []bank.Question

	message string
	dirty   bool
}

func newState(p *puzzle.Puzzle) *uiState {
	return &uiState{p: p, mode: puzzle.ModeBlack, focus: focusGrid}
}

// Edit runs the interactive editor until the user quits or ctx ends.
func Edit(ctx context.Context, opts Options) error {
	if opts.Puzzle == nil {
		return errors.New("Puzzle is required")
	}
	state := newState(opts.Puzzle)

	screen, err := newScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	done := make(chan struct{})
	defer close(done)
	go watchContext(ctx, done, screen)

	for {
		draw(screen, state, opts)
		ev := screen.PollEvent()

		switch tev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ue, ok := tev.Data().(*uiEvent); ok && ue.kind == "quit" {
				return saveOnExit(state, opts)
			}
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if err := handleKey(screen, state, opts, tev); err != nil {
				if errors.Is(err, errQuit) {
					return saveOnExit(state, opts)
				}
				return err
			}
		}
	}
}

// watchContext turns cancellation of ctx into a quit event. It returns when
// either ctx ends or done is closed.
func watchContext(ctx context.Context, done <-chan struct{}, screen tcell.Screen) {
	select {
	case <-ctx.Done():
		_ = screen.PostEvent(tcell.NewEventInterrupt(&uiEvent{kind: "quit"}))
	case <-done:
	}
}

func saveOnExit(state *uiState, opts Options) error {
	if !state.dirty || opts.Save == nil {
		return nil
	}
	return opts.Save(state.p)
}

func handleKey(screen tcell.Screen, state *uiState, opts Options, ev *tcell.EventKey) error {
	if state.inputMode != "" {
		handleInputKey(state, ev)
		return nil
	}

	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return errQuit
	case tcell.KeyCtrlS:
		save(state, opts)
		return nil
	case tcell.KeyCtrlB:
		setMode(state, puzzle.ModeBlack)
		return nil
	case tcell.KeyCtrlD:
		setMode(state, puzzle.ModeDouble)
		return nil
	case tcell.KeyCtrlN:
		setMode(state, puzzle.ModeLabel)
		return nil
	case tcell.KeyCtrlT:
		setMode(state, puzzle.ModeLetter)
		return nil
	case tcell.KeyTab:
		cycleFocus(state)
		return nil
	case tcell.KeyBacktab:
		setMode(state, state.mode.Next())
		return nil
	}

	lay := computeLayout(screen, state)
	switch state.focus {
	case focusClues:
		return handleClueKey(state, opts, lay, ev)
	case focusBank:
		return handleBankKey(state, lay, ev)
	}
	return handleGridKey(state, opts, ev)
}

func setMode(state *uiState, mode puzzle.Mode) {
	state.mode = mode
	state.message = "mode: " + mode.String()
}

func cycleFocus(state *uiState) {
	switch state.focus {
	case focusGrid:
		state.focus = focusClues
	case focusClues:
		if state.bankOpen {
			state.focus = focusBank
		} else {
			state.focus = focusGrid
		}
	default:
		state.focus = focusGrid
	}
}

func handleGridKey(state *uiState, opts Options, ev *tcell.EventKey) error {
	p := state.p
	switch ev.Key() {
	case tcell.KeyUp:
		moveCursor(state, -1, 0)
		return nil
	case tcell.KeyDown:
		moveCursor(state, 1, 0)
		return nil
	case tcell.KeyLeft:
		moveCursor(state, 0, -1)
		return nil
	case tcell.KeyRight:
		moveCursor(state, 0, 1)
		return nil
	case tcell.KeyESC:
		return errQuit
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		if state.mode == puzzle.ModeLetter {
			applyAt(state, "")
		}
		return nil
	case tcell.KeyEnter:
		if state.mode != puzzle.ModeLetter {
			applyAt(state, "")
		}
		return nil
	case tcell.KeyRune:
	default:
		return nil
	}

	ch := ev.Rune()
	if state.mode == puzzle.ModeLetter {
		if ch == ' ' {
			applyAt(state, "")
			return nil
		}
		applyAt(state, string(ch))
		return nil
	}

	switch ch {
	case ' ':
		applyAt(state, "")
	case 'q', 'Q':
		return errQuit
	case 'h':
		moveCursor(state, 0, -1)
	case 'j':
		moveCursor(state, 1, 0)
	case 'k':
		moveCursor(state, -1, 0)
	case 'l':
		moveCursor(state, 0, 1)
	case '+':
		resize(state, p.Rows()+1, p.Cols())
	case '-':
		resize(state, p.Rows()-1, p.Cols())
	case '>':
		resize(state, p.Rows(), p.Cols()+1)
	case '<':
		resize(state, p.Rows(), p.Cols()-1)
	case ']':
		setNextLabel(state, p.NextLabel()+1)
	case '[':
		setNextLabel(state, p.NextLabel()-1)
	case 'c':
		if item, ok := slotUnderCursor(state, puzzle.Across, puzzle.Down); ok {
			beginClueEdit(state, item)
		}
	case 'C':
		if item, ok := slotUnderCursor(state, puzzle.Down, puzzle.Across); ok {
			beginClueEdit(state, item)
		}
	case '?':
		if item, ok := slotUnderCursor(state, puzzle.Across, puzzle.Down); ok {
			openBank(state, opts, item.slot)
		}
	}
	return nil
}

func moveCursor(state *uiState, dr, dc int) {
	state.cursor.Row = clamp(state.cursor.Row+dr, 0, state.p.Rows()-1)
	state.cursor.Col = clamp(state.cursor.Col+dc, 0, state.p.Cols()-1)
}

func applyAt(state *uiState, input string) {
	eff, err := state.p.Apply(state.mode, state.cursor.Row, state.cursor.Col, input)
	if err != nil {
		state.message = err.Error()
		return
	}
	if eff.Changed {
		state.dirty = true
		state.message = ""
	}
	if eff.Advance != nil {
		state.cursor = *eff.Advance
	}
}

func resize(state *uiState, rows, cols int) {
	if err := state.p.Resize(rows, cols); err != nil {
		state.message = err.Error()
		return
	}
	state.dirty = true
	state.message = fmt.Sprintf("size %dx%d", rows, cols)
	moveCursor(state, 0, 0)
}

func setNextLabel(state *uiState, n int) {
	if err := state.p.SetNextLabel(n); err != nil {
		state.message = err.Error()
		return
	}
	state.dirty = true
	state.message = fmt.Sprintf("next label %d", n)
}

func save(state *uiState, opts Options) {
	if opts.Save == nil {
		state.message = "saving is not configured"
		return
	}
	if err := opts.Save(state.p); err != nil {
		state.message = "save failed: " + err.Error()
		return
	}
	state.dirty = false
	state.message = "saved"
}

// slotUnderCursor prefers a slot in the first direction and falls back to
// the second.
func slotUnderCursor(state *uiState, dirs ...puzzle.Direction) (clueItem, bool) {
	for _, d := range dirs {
		if s, ok := puzzle.SlotAt(state.p.Slots(d), d, state.cursor.Row, state.cursor.Col); ok {
			return clueItem{dir: d, slot: s}, true
		}
	}
	state.message = "no slot under cursor"
	return clueItem{}, false
}

func buildClueItems(p *puzzle.Puzzle) []clueItem {
	items := []clueItem{}
	for _, s := range p.Across() {
		items = append(items, clueItem{dir: puzzle.Across, slot: s})
	}
	for _, s := range p.Down() {
		items = append(items, clueItem{dir: puzzle.Down, slot: s})
	}
	return items
}

func handleClueKey(state *uiState, opts Options, lay layout, ev *tcell.EventKey) error {
	items := buildClueItems(state.p)
	state.clueState.clamp(len(items))

	if ev.Key() == tcell.KeyESC {
		state.focus = focusGrid
		return nil
	}
	if len(items) > 0 {
		item := items[state.clueState.selected]
		switch {
		case ev.Key() == tcell.KeyEnter:
			beginClueEdit(state, item)
			return nil
		case ev.Key() == tcell.KeyRune && ev.Rune() == '?':
			openBank(state, opts, item.slot)
			return nil
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'x' || ev.Rune() == 'X'):
			if err := state.p.SetClue(item.dir, item.slot.Number, ""); err == nil {
				state.dirty = true
			}
			return nil
		}
	}
	prev := state.clueState.selected
	applyListNavigation(&state.clueState, len(items), lay.clues.h-2, ev)
	if state.clueState.selected != prev && len(items) > 0 {
		s := items[state.clueState.selected].slot
		state.cursor = puzzle.Position{Row: s.Row, Col: s.Col}
	}
	return nil
}

func beginClueEdit(state *uiState, item clueItem) {
	state.inputMode = "clue"
	state.editTarget = item
	state.inputBuffer = state.p.Clue(item.dir, item.slot.Number)
}

func handleInputKey(state *uiState, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyESC:
		state.inputMode = ""
		state.inputBuffer = ""
	case tcell.KeyEnter:
		t := state.editTarget
		if err := state.p.SetClue(t.dir, t.slot.Number, strings.TrimSpace(state.inputBuffer)); err != nil {
			state.message = err.Error()
		} else {
			state.dirty = true
			state.message = fmt.Sprintf("clue %s %d updated", t.dir, t.slot.Number)
		}
		state.inputMode = ""
		state.inputBuffer = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(state.inputBuffer); len(r) > 0 {
			state.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		state.inputBuffer += string(ev.Rune())
	}
}

func openBank(state *uiState, opts Options, slot puzzle.Slot) {
	state.bankOpen = true
	state.bankLength = slot.Length
	state.bankPattern = bank.PatternFromWord(slot.Word)
	state.bankResults = bank.Filter(opts.Questions, slot.Length, state.bankPattern)
	state.bankState = listState{}
	state.focus = focusBank
	state.message = fmt.Sprintf("%d questions of length %d", len(state.bankResults), slot.Length)
}

func handleBankKey(state *uiState, lay layout, ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyESC:
		state.bankOpen = false
		state.focus = focusGrid
		return nil
	case tcell.KeyEnter:
		if len(state.bankResults) > 0 {
			q := state.bankResults[state.bankState.selected]
			state.message = fmt.Sprintf("%s: %s (%d, %s)", q.Word, q.Clue, q.Length, q.Genre)
		}
		return nil
	}
	applyListNavigation(&state.bankState, len(state.bankResults), lay.bank.h-2, ev)
	return nil
}

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/baaaaaaaka/xword-builder/internal/bank"
	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
)

func newTestScreen(t *testing.T, w, h int) tcell.Screen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(func() { screen.Fini() })
	return screen
}

type sizedScreen struct {
	tcell.Screen
}

func (s *sizedScreen) Init() error {
	if err := s.Screen.Init(); err != nil {
		return err
	}
	s.Screen.SetSize(100, 30)
	return nil
}

func newTestPuzzle(t *testing.T, rows, cols int) *puzzle.Puzzle {
	t.Helper()
	p, err := puzzle.NewPuzzle(rows, cols, puzzle.DefaultBounds)
	if err != nil {
		t.Fatalf("NewPuzzle: %v", err)
	}
	return p
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, 0)
}

func runeKey(ch rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, ch, 0)
}

func press(t *testing.T, screen tcell.Screen, state *uiState, opts Options, evs ...*tcell.EventKey) error {
	t.Helper()
	for _, ev := range evs {
		if err := handleKey(screen, state, opts, ev); err != nil {
			return err
		}
	}
	return nil
}

func screenText(screen tcell.Screen) string {
	w, h := screen.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mainc, _, _, _ := screen.GetContent(x, y)
			b.WriteRune(mainc)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestHandleKeyQuit(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	state := newState(newTestPuzzle(t, 3, 3))

	if err := press(t, screen, state, Options{}, runeKey('q')); !errors.Is(err, errQuit) {
		t.Fatalf("expected quit error, got %v", err)
	}
	state.mode = puzzle.ModeLetter
	if err := press(t, screen, state, Options{}, runeKey('q')); err != nil {
		t.Fatalf("q in letter mode should type, got %v", err)
	}
	if err := press(t, screen, state, Options{}, key(tcell.KeyCtrlC)); !errors.Is(err, errQuit) {
		t.Fatalf("expected quit on ctrl-c, got %v", err)
	}
}

func TestHandleKeyModesAndCursor(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	state := newState(newTestPuzzle(t, 3, 3))

	if err := press(t, screen, state, Options{}, key(tcell.KeyCtrlN), key(tcell.KeyRight), key(tcell.KeyEnter)); err != nil {
		t.Fatalf("press: %v", err)
	}
	if state.mode != puzzle.ModeLabel {
		t.Fatalf("mode=%v want label", state.mode)
	}
	cell, _ := state.p.CellAt(0, 1)
	if cell.Label != 1 || !state.dirty {
		t.Fatalf("label=%d dirty=%v", cell.Label, state.dirty)
	}

	if err := press(t, screen, state, Options{}, key(tcell.KeyDown), key(tcell.KeyDown), key(tcell.KeyDown)); err != nil {
		t.Fatalf("press: %v", err)
	}
	if state.cursor != (puzzle.Position{Row: 2, Col: 1}) {
		t.Fatalf("cursor=%v want clamped (2,1)", state.cursor)
	}

	if err := press(t, screen, state, Options{}, key(tcell.KeyBacktab)); err != nil {
		t.Fatalf("press: %v", err)
	}
	if state.mode != puzzle.ModeLetter {
		t.Fatalf("mode=%v want letter after cycling", state.mode)
	}
}

func TestLetterEntryAdvancesCursor(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	p := newTestPuzzle(t, 3, 3)
	if _, err := p.Apply(puzzle.ModeLabel, 0, 0, ""); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	state := newState(p)

	if err := press(t, screen, state, Options{}, key(tcell.KeyCtrlT), runeKey('C'), runeKey('A'), runeKey('T')); err != nil {
		t.Fatalf("press: %v", err)
	}
	if got := p.Across()[0].Word; got != "CAT" {
		t.Fatalf("word=%q want CAT", got)
	}
	if state.cursor != (puzzle.Position{Row: 0, Col: 2}) {
		t.Fatalf("cursor=%v want (0,2)", state.cursor)
	}

	if err := press(t, screen, state, Options{}, key(tcell.KeyBackspace2)); err != nil {
		t.Fatalf("press: %v", err)
	}
	if got := p.Across()[0].Word; got != "CA□" {
		t.Fatalf("word=%q want CA□", got)
	}
}

func TestResizeKeys(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	state := newState(newTestPuzzle(t, 3, 3))

	if err := press(t, screen, state, Options{}, runeKey('+'), runeKey('>'), runeKey('>')); err != nil {
		t.Fatalf("press: %v", err)
	}
	if state.p.Rows() != 4 || state.p.Cols() != 5 {
		t.Fatalf("size=%dx%d want 4x5", state.p.Rows(), state.p.Cols())
	}
	if err := press(t, screen, state, Options{}, runeKey('-'), runeKey('-')); err != nil {
		t.Fatalf("press: %v", err)
	}
	if state.p.Rows() != 3 || !strings.Contains(state.message, "invalid grid dimension") {
		t.Fatalf("rows=%d message=%q", state.p.Rows(), state.message)
	}
}

func TestNextLabelOverrideKeys(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	state := newState(newTestPuzzle(t, 3, 3))

	if err := press(t, screen, state, Options{}, runeKey(']'), runeKey(']'), runeKey('[')); err != nil {
		t.Fatalf("press: %v", err)
	}
	if state.p.NextLabel() != 2 {
		t.Fatalf("nextLabel=%d want 2", state.p.NextLabel())
	}
	if err := press(t, screen, state, Options{}, runeKey('['), runeKey('[')); err != nil {
		t.Fatalf("press: %v", err)
	}
	if state.p.NextLabel() != 1 {
		t.Fatalf("nextLabel=%d want 1", state.p.NextLabel())
	}
}

func TestClueEditing(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	p := newTestPuzzle(t, 3, 3)
	if _, err := p.Apply(puzzle.ModeLabel, 0, 0, ""); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	state := newState(p)

	evs := []*tcell.EventKey{runeKey('c')}
	for _, ch := range "Pet, furry" {
		evs = append(evs, runeKey(ch))
	}
	evs = append(evs, key(tcell.KeyBackspace2), runeKey('y'), key(tcell.KeyEnter))
	if err := press(t, screen, state, Options{}, evs...); err != nil {
		t.Fatalf("press: %v", err)
	}
	if got := p.Clue(puzzle.Across, 1); got != "Pet, furry" {
		t.Fatalf("clue=%q", got)
	}

	// Down clue via the clue panel: Tab to focus, move to the second item.
	if err := press(t, screen, state, Options{}, key(tcell.KeyTab), key(tcell.KeyDown), key(tcell.KeyEnter), runeKey('x'), key(tcell.KeyEnter)); err != nil {
		t.Fatalf("press: %v", err)
	}
	if got := p.Clue(puzzle.Down, 1); got != "x" {
		t.Fatalf("down clue=%q", got)
	}

	if err := press(t, screen, state, Options{}, key(tcell.KeyEnter), runeKey('z'), key(tcell.KeyESC)); err != nil {
		t.Fatalf("press: %v", err)
	}
	if got := p.Clue(puzzle.Down, 1); got != "x" {
		t.Fatalf("escape should cancel, clue=%q", got)
	}
}

func TestBankPanel(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	p := newTestPuzzle(t, 3, 3)
	if _, err := p.Apply(puzzle.ModeLabel, 0, 0, ""); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := p.Apply(puzzle.ModeLetter, 0, 1, "O"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	opts := Options{Questions: []bank.Question{
		{Length: 3, Word: "CAT", Clue: "meow"},
		{Length: 3, Word: "COW", Clue: "moo"},
		{Length: 4, Word: "COWS", Clue: "herd"},
	}}
	state := newState(p)

	if err := press(t, screen, state, opts, runeKey('?')); err != nil {
		t.Fatalf("press: %v", err)
	}
	if !state.bankOpen || state.focus != focusBank {
		t.Fatalf("bank not open: %#v", state)
	}
	if len(state.bankResults) != 1 || state.bankResults[0].Word != "COW" {
		t.Fatalf("results=%#v", state.bankResults)
	}
	if err := press(t, screen, state, opts, key(tcell.KeyEnter)); err != nil {
		t.Fatalf("press: %v", err)
	}
	if !strings.Contains(state.message, "COW: moo") {
		t.Fatalf("message=%q", state.message)
	}
	if err := press(t, screen, state, opts, key(tcell.KeyESC)); err != nil {
		t.Fatalf("press: %v", err)
	}
	if state.bankOpen || state.focus != focusGrid {
		t.Fatalf("bank still open")
	}
}

func TestSaveKey(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	state := newState(newTestPuzzle(t, 3, 3))
	saves := 0
	opts := Options{Save: func(*puzzle.Puzzle) error {
		saves++
		return nil
	}}

	if err := press(t, screen, state, opts, key(tcell.KeyEnter), key(tcell.KeyCtrlS)); err != nil {
		t.Fatalf("press: %v", err)
	}
	if saves != 1 || state.dirty || state.message != "saved" {
		t.Fatalf("saves=%d dirty=%v message=%q", saves, state.dirty, state.message)
	}

	opts.Save = func(*puzzle.Puzzle) error { return errors.New("disk full") }
	if err := press(t, screen, state, opts, key(tcell.KeyCtrlS)); err != nil {
		t.Fatalf("press: %v", err)
	}
	if !strings.Contains(state.message, "disk full") {
		t.Fatalf("message=%q", state.message)
	}
}

func TestDrawShowsGridAndClues(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	p := newTestPuzzle(t, 3, 3)
	for _, step := range []struct {
		mode  puzzle.Mode
		r, c  int
		input string
	}{
		{puzzle.ModeLabel, 0, 0, ""},
		{puzzle.ModeLetter, 0, 0, "C"},
		{puzzle.ModeLetter, 0, 1, "A"},
		{puzzle.ModeLetter, 0, 2, "T"},
		{puzzle.ModeBlack, 1, 1, ""},
		{puzzle.ModeDouble, 2, 2, ""},
	} {
		if _, err := p.Apply(step.mode, step.r, step.c, step.input); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
	if err := p.SetClue(puzzle.Across, 1, "Feline"); err != nil {
		t.Fatalf("SetClue: %v", err)
	}
	state := newState(p)
	draw(screen, state, Options{Name: "sunday", Version: "1.2.0"})

	text := screenText(screen)
	for _, want := range []string{"> sunday", "→1 CAT (3)  Feline", "↓1 C□□ (3)", "███", "(·)", "v1.2.0", "#1 →3 ↓3"} {
		if !strings.Contains(text, want) {
			t.Fatalf("screen missing %q:\n%s", want, text)
		}
	}
}

func TestEditRequiresPuzzle(t *testing.T) {
	if err := Edit(context.Background(), Options{}); err == nil {
		t.Fatalf("expected error when Puzzle is nil")
	}
}

func TestEditSavesOnQuit(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	prevNewScreen := newScreen
	newScreen = func() (tcell.Screen, error) {
		return &sizedScreen{Screen: screen}, nil
	}
	t.Cleanup(func() { newScreen = prevNewScreen })

	p := newTestPuzzle(t, 3, 3)
	var saved *puzzle.Puzzle
	opts := Options{Puzzle: p, Save: func(p *puzzle.Puzzle) error {
		saved = p
		return nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = screen.PostEvent(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
		_ = screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', 0))
	}()

	if err := Edit(ctx, opts); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if saved == nil {
		t.Fatalf("expected save on quit")
	}
	if cell, _ := saved.CellAt(0, 0); cell.Kind != puzzle.Black {
		t.Fatalf("cell (0,0)=%#v want black", cell)
	}
}

func TestEditStopsOnContextCancel(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	prevNewScreen := newScreen
	newScreen = func() (tcell.Screen, error) {
		return &sizedScreen{Screen: screen}, nil
	}
	t.Cleanup(func() { newScreen = prevNewScreen })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	if err := Edit(ctx, Options{Puzzle: newTestPuzzle(t, 3, 3)}); err != nil {
		t.Fatalf("Edit: %v", err)
	}
}

func TestVersionLabel(t *testing.T) {
	cases := map[string]string{"": "dev", "dev": "dev", "1.0.0": "v1.0.0", "v2": "v2"}
	for in, want := range cases {
		if got := versionLabel(in); got != want {
			t.Fatalf("versionLabel(%q)=%q want %q", in, got, want)
		}
	}
}

func TestWatchContextStopsWhenEditorReturns(t *testing.T) {
	screen := newTestScreen(t, 20, 5)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		watchContext(context.Background(), done, screen)
		close(exited)
	}()

	close(done)
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher still running after editor returned")
	}
}

func TestWatchContextPostsQuit(t *testing.T) {
	screen := newTestScreen(t, 20, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	watchContext(ctx, make(chan struct{}), screen)

	ev := screen.PollEvent()
	intr, ok := ev.(*tcell.EventInterrupt)
	if !ok {
		t.Fatalf("event=%T want interrupt", ev)
	}
	if ue, ok := intr.Data().(*uiEvent); !ok || ue.kind != "quit" {
		t.Fatalf("interrupt data=%#v", intr.Data())
	}
}

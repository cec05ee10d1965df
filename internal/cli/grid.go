package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
)

func newShowCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [document]",
		Short: "Print the grid of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.store()
			if err != nil {
				return err
			}
			_, doc, p, err := loadPuzzle(store, root.ref(firstArg(args)))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), p.Snapshot())
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %dx%d  next label %d\n", doc.Name, p.Rows(), p.Cols(), p.NextLabel())
			_, _ = io.WriteString(cmd.OutOrStdout(), renderText(p))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored snapshot as JSON")
	return cmd
}

// renderText draws each cell as label, glyph and a circle marker.
func renderText(p *puzzle.Puzzle) string {
	var b strings.Builder
	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Cols(); c++ {
			cell, _ := p.CellAt(r, c)
			if c > 0 {
				b.WriteByte(' ')
			}
			label := ""
			if cell.Label > 0 {
				label = strconv.Itoa(cell.Label)
			}
			glyph := "."
			switch {
			case cell.IsBlack():
				glyph = "#"
			case cell.Letter != "":
				glyph = cell.Letter
			}
			circle := " "
			if cell.Circle {
				circle = "o"
			}
			fmt.Fprintf(&b, "%2s%s%s", label, glyph, circle)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

type slotView struct {
	puzzle.Slot
	Clue string `json:"clue,omitempty"`
}

type slotsView struct {
	Across []slotView `json:"across"`
	Down   []slotView `json:"down"`
}

func buildSlotsView(p *puzzle.Puzzle) slotsView {
	view := func(d puzzle.Direction) []slotView {
		slots := p.Slots(d)
		out := make([]slotView, 0, len(slots))
		for _, s := range slots {
			out = append(out, slotView{Slot: s, Clue: p.Clue(d, s.Number)})
		}
		return out
	}
	return slotsView{Across: view(puzzle.Across), Down: view(puzzle.Down)}
}

func newSlotsCmd(root *rootOptions) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "slots [document]",
		Short: "List across and down slots with their words and clues",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.store()
			if err != nil {
				return err
			}
			_, _, p, err := loadPuzzle(store, root.ref(firstArg(args)))
			if err != nil {
				return err
			}
			v := buildSlotsView(p)
			if !pretty {
				return writeJSON(cmd.OutOrStdout(), v)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "DIR\tNO\tWORD\tLEN\tAT\tCLUE")
			for _, group := range []struct {
				dir   puzzle.Direction
				slots []slotView
			}{{puzzle.Across, v.Across}, {puzzle.Down, v.Down}} {
				for _, s := range group.slots {
					_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%d\t(%d,%d)\t%s\n",
						group.dir, s.Number, s.Word, s.Length, s.Row, s.Col, s.Clue)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Print a table instead of JSON")
	return cmd
}

func newResizeCmd(root *rootOptions) *cobra.Command {
	var rows, cols int

	cmd := &cobra.Command{
		Use:   "resize",
		Short: "Change the grid size, keeping the overlapping cells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := mutatePuzzle(root, root.docRef, func(p *puzzle.Puzzle) error {
				r, c := rows, cols
				if r == 0 {
					r = p.Rows()
				}
				if c == 0 {
					c = p.Cols()
				}
				return p.Resize(r, c)
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Resized to %dx%d\n", p.Rows(), p.Cols())
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "New row count (default: unchanged)")
	cmd.Flags().IntVar(&cols, "cols", 0, "New column count (default: unchanged)")
	return cmd
}

func newCellCmd(root *rootOptions) *cobra.Command {
	var modeName, input string
	var row, col int

	cmd := &cobra.Command{
		Use:   "cell",
		Short: "Apply an edit mode to one cell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := puzzle.ParseMode(modeName)
			if err != nil {
				return err
			}
			var eff puzzle.Effect
			_, err = mutatePuzzle(root, root.docRef, func(p *puzzle.Puzzle) error {
				var applyErr error
				eff, applyErr = p.Apply(mode, row, col, input)
				return applyErr
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !eff.Changed {
				_, _ = fmt.Fprintf(out, "(%d,%d) unchanged\n", row, col)
				return nil
			}
			_, _ = fmt.Fprintf(out, "(%d,%d) %s applied\n", row, col, mode)
			if eff.Advance != nil {
				_, _ = fmt.Fprintf(out, "next (%d,%d)\n", eff.Advance.Row, eff.Advance.Col)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", "", "black, double, label or letter")
	cmd.Flags().IntVar(&row, "row", 0, "Row index (0-based)")
	cmd.Flags().IntVar(&col, "col", 0, "Column index (0-based)")
	cmd.Flags().StringVar(&input, "input", "", "Text typed into the cell (letter mode)")
	_ = cmd.MarkFlagRequired("mode")
	return cmd
}

func newNextLabelCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "next-label <n>",
		Short: "Override the number the next label will get",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid label %q: %w", args[0], err)
			}
			if _, err := mutatePuzzle(root, root.docRef, func(p *puzzle.Puzzle) error {
				return p.SetNextLabel(n)
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Next label: %d\n", n)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/xword-builder/internal/cluecsv"
	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
)

func newCluesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clues",
		Short: "Set, export and import clues",
	}
	cmd.AddCommand(
		newCluesSetCmd(root),
		newCluesExportCmd(root),
		newCluesImportCmd(root),
	)
	return cmd
}

func parseDirection(s string) (puzzle.Direction, error) {
	switch s {
	case "across", "Across", "a", "A":
		return puzzle.Across, nil
	case "down", "Down", "d", "D":
		return puzzle.Down, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want across or down)", s)
}

// docArg returns the document named after the file argument, if any.
func docArg(args []string) string {
	if len(args) < 2 {
		return ""
	}
	return args[1]
}

func newCluesSetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <across|down> <number> [text]",
		Short: "Set the clue of a slot; empty text clears it",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid slot number %q: %w", args[1], err)
			}
			text := ""
			if len(args) == 3 {
				text = args[2]
			}
			if _, err := mutatePuzzle(root, root.docRef, func(p *puzzle.Puzzle) error {
				return p.SetClue(dir, n, text)
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d updated\n", dir, n)
			return nil
		},
	}
}

func newCluesExportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file|-] [document]",
		Short: "Write clues as Type,Number,Clue CSV (stdout when no file or - is given)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.store()
			if err != nil {
				return err
			}
			_, doc, p, err := loadPuzzle(store, root.ref(docArg(args)))
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := cluecsv.Encode(&buf, p.Across(), p.Down(), p.Clues()); err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				_, err := io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			if err := os.WriteFile(args[0], buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write clues: %w", err)
			}
			root.logger().Debug("clues exported", "document", doc.Name, "file", args[0], "bytes", buf.Len())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
			return nil
		},
	}
}

func newCluesImportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file> [document]",
		Short: "Merge clues from a Type,Number,Clue CSV file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open clues: %w", err)
			}
			defer f.Close()

			var res cluecsv.Result
			if _, err := mutatePuzzle(root, root.ref(docArg(args)), func(p *puzzle.Puzzle) error {
				clues := puzzle.NewClues()
				r, err := cluecsv.Decode(f, &clues)
				if err != nil {
					return err
				}
				p.MergeClues(clues)
				res = r
				return nil
			}); err != nil {
				return err
			}
			if res.Skipped > 0 {
				root.logger().Warn("clue rows skipped", "file", args[0], "skipped", res.Skipped)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d across and %d down clues (%d rows skipped)\n",
				res.Across, res.Down, res.Skipped)
			return nil
		},
	}
}

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/xword-builder/internal/bank"
	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
	"github.com/baaaaaaaka/xword-builder/internal/tui"
)

var runEditor = tui.Edit

func newEditCmd(root *rootOptions) *cobra.Command {
	var bankPath string

	cmd := &cobra.Command{
		Use:   "edit [document]",
		Short: "Open a document in the interactive editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditWithBank(cmd, root, firstArg(args), bankPath)
		},
	}
	cmd.Flags().StringVar(&bankPath, "bank", "", "Question bank CSV (default: workspace bank path)")
	return cmd
}

func runEdit(cmd *cobra.Command, root *rootOptions, ref string) error {
	return runEditWithBank(cmd, root, ref, "")
}

func runEditWithBank(cmd *cobra.Command, root *rootOptions, ref, bankPath string) error {
	log := root.logger()
	store, err := root.store()
	if err != nil {
		return err
	}
	cfg, doc, p, err := loadPuzzle(store, root.ref(ref))
	if err != nil {
		return err
	}

	if bankPath == "" {
		bankPath = cfg.BankPath
	}
	var questions []bank.Question
	if bankPath != "" {
		questions, err = bank.Load(bankPath)
		if err != nil {
			log.Warn("question bank unavailable", "path", bankPath, "err", err)
		} else {
			log.Debug("question bank loaded", "path", bankPath, "questions", len(questions))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runEditor(ctx, tui.Options{
		Puzzle:    p,
		Name:      doc.Name,
		Questions: questions,
		Version:   version,
		Save: func(edited *puzzle.Puzzle) error {
			return savePuzzle(root, store, doc.ID, edited)
		},
	})
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/xword-builder/internal/bank"
	"github.com/baaaaaaaka/xword-builder/internal/config"
)

func newBankCmd(root *rootOptions) *cobra.Command {
	var bankPath string

	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Search the question bank",
	}
	cmd.PersistentFlags().StringVar(&bankPath, "file", "", "Question bank CSV (default: workspace bank path)")

	cmd.AddCommand(
		newBankUseCmd(root),
		newBankSearchCmd(root, &bankPath),
		newBankStatsCmd(root, &bankPath),
	)
	return cmd
}

func loadBank(root *rootOptions, override string) ([]bank.Question, error) {
	path := override
	if path == "" {
		store, err := root.store()
		if err != nil {
			return nil, err
		}
		cfg, err := store.Load()
		if err != nil {
			return nil, err
		}
		path = cfg.BankPath
	}
	if path == "" {
		return nil, fmt.Errorf("no question bank configured; pass --file or run `xword bank use <file>`")
	}
	qs, err := bank.Load(path)
	if err != nil {
		return nil, err
	}
	root.logger().Debug("question bank loaded", "path", path, "questions", len(qs))
	return qs, nil
}

func newBankUseCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use <file>",
		Short: "Remember a question bank CSV in the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("question bank: %w", err)
			}
			store, err := root.store()
			if err != nil {
				return err
			}
			if err := store.Update(func(cfg *config.Config) error {
				cfg.BankPath = path
				return nil
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Question bank: %s\n", path)
			return nil
		},
	}
}

func newBankSearchCmd(root *rootOptions, bankPath *string) *cobra.Command {
	var length int
	var pattern string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find questions by word length and letter pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := bank.ParsePattern(pattern)
			if length == 0 {
				length = len(p)
			}
			if length <= 0 {
				return fmt.Errorf("--length or --pattern is required")
			}
			if len(p) > 0 && len(p) != length {
				return fmt.Errorf("pattern %q has %d letters, want %d", pattern, len(p), length)
			}
			qs, err := loadBank(root, *bankPath)
			if err != nil {
				return err
			}
			matches := bank.Filter(qs, length, p)
			if len(matches) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No matching questions.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "WORD\tCLUE\tGENRE\tDIFFICULTY")
			for _, q := range matches {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.Word, q.Clue, q.Genre, q.Difficulty)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&length, "length", 0, "Word length")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Letter pattern such as C?T ('?', '_' and '.' are wildcards)")
	return cmd
}

func newBankStatsCmd(root *rootOptions, bankPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count questions per word length",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			qs, err := loadBank(root, *bankPath)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "LENGTH\tQUESTIONS")
			for _, lc := range bank.CountByLength(qs) {
				_, _ = fmt.Fprintf(w, "%d\t%d\n", lc.Length, lc.Count)
			}
			return w.Flush()
		},
	}
}

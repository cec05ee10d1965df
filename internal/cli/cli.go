package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0"
	commit  = ""
	date    = ""
)

type rootOptions struct {
	configPath string
	docRef     string
	verbose    bool
	log        *slog.Logger
}

func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "xword [document]",
		Short:         "Build crossword grids and clues in the terminal",
		SilenceErrors: false,
		SilenceUsage:  true,
		Version:       buildVersion(),
		Args:          cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.log = newLogger(cmd.ErrOrStderr(), opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts, firstArg(args))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Override workspace file path (default: OS user config dir)")
	cmd.PersistentFlags().StringVarP(&opts.docRef, "doc", "d", "", "Document id or name (default: active document)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug details to stderr")

	cmd.AddCommand(
		newNewCmd(opts),
		newListCmd(opts),
		newUseCmd(opts),
		newRemoveCmd(opts),
		newEditCmd(opts),
		newShowCmd(opts),
		newSlotsCmd(opts),
		newResizeCmd(opts),
		newCellCmd(opts),
		newNextLabelCmd(opts),
		newCluesCmd(opts),
		newBankCmd(opts),
	)

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// logger tolerates commands run without the root pre-run hook.
func (o *rootOptions) logger() *slog.Logger {
	if o.log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.log
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}
	if date != "" {
		v += " " + date
	}
	return v
}

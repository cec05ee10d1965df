package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/xword-builder/internal/config"
	"github.com/baaaaaaaka/xword-builder/internal/ids"
	"github.com/baaaaaaaka/xword-builder/internal/puzzle"
)

const defaultDocName = "untitled"

func (o *rootOptions) store() (*config.Store, error) {
	return config.NewStore(o.configPath)
}

// ref returns the explicit document argument, falling back to --doc.
func (o *rootOptions) ref(arg string) string {
	if strings.TrimSpace(arg) != "" {
		return arg
	}
	return o.docRef
}

func selectDocument(cfg config.Config, ref string) (config.Document, error) {
	if d, ok := cfg.ResolveDocument(ref); ok {
		return d, nil
	}
	if ref != "" {
		return config.Document{}, fmt.Errorf("document %q not found", ref)
	}
	if len(cfg.Documents) == 0 {
		return config.Document{}, fmt.Errorf("no documents found; run `xword new`")
	}
	if len(cfg.Documents) == 1 {
		return cfg.Documents[0], nil
	}
	return config.Document{}, fmt.Errorf("multiple documents exist; pick one with `xword use <document>` or --doc")
}

// loadPuzzle resolves a document and rebuilds its puzzle.
func loadPuzzle(store *config.Store, ref string) (config.Config, config.Document, *puzzle.Puzzle, error) {
	cfg, err := store.Load()
	if err != nil {
		return cfg, config.Document{}, nil, err
	}
	doc, err := selectDocument(cfg, ref)
	if err != nil {
		return cfg, doc, nil, err
	}
	p, err := puzzle.Restore(doc.Puzzle, cfg.Bounds())
	if err != nil {
		return cfg, doc, nil, fmt.Errorf("document %q: %w", doc.Name, err)
	}
	return cfg, doc, p, nil
}

// mutatePuzzle runs fn against the selected document under the workspace
// lock and writes the result back.
func mutatePuzzle(o *rootOptions, ref string, fn func(*puzzle.Puzzle) error) (*puzzle.Puzzle, error) {
	store, err := o.store()
	if err != nil {
		return nil, err
	}
	var out *puzzle.Puzzle
	err = store.Update(func(cfg *config.Config) error {
		doc, err := selectDocument(*cfg, ref)
		if err != nil {
			return err
		}
		p, err := puzzle.Restore(doc.Puzzle, cfg.Bounds())
		if err != nil {
			return fmt.Errorf("document %q: %w", doc.Name, err)
		}
		if err := fn(p); err != nil {
			return err
		}
		doc.Puzzle = p.Snapshot()
		doc.UpdatedAt = time.Now().UTC()
		cfg.UpsertDocument(doc)
		out = p
		o.logger().Debug("document saved", "id", doc.ID, "name", doc.Name, "path", store.Path())
		return nil
	})
	return out, err
}

func savePuzzle(o *rootOptions, store *config.Store, id string, p *puzzle.Puzzle) error {
	return store.Update(func(cfg *config.Config) error {
		doc, ok := cfg.FindDocument(id)
		if !ok {
			return fmt.Errorf("document %s was removed", id)
		}
		doc.Puzzle = p.Snapshot()
		doc.UpdatedAt = time.Now().UTC()
		cfg.UpsertDocument(doc)
		o.logger().Debug("document saved", "id", doc.ID, "name", doc.Name, "path", store.Path())
		return nil
	})
}

func newNewCmd(root *rootOptions) *cobra.Command {
	var rows, cols int
	var force bool

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create an empty grid and make it the active document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(firstArg(args))
			if name == "" {
				name = defaultDocName
			}
			store, err := root.store()
			if err != nil {
				return err
			}

			var created config.Document
			err = store.Update(func(cfg *config.Config) error {
				p, err := puzzle.NewPuzzle(rows, cols, cfg.Bounds())
				if err != nil {
					return err
				}
				now := time.Now().UTC()
				doc := config.Document{Name: name, CreatedAt: now}
				if existing, ok := cfg.FindDocument(name); ok {
					if !force {
						return fmt.Errorf("document %q already exists (use --force to replace it)", name)
					}
					doc = existing
				} else {
					id, err := ids.New()
					if err != nil {
						return err
					}
					doc.ID = id
				}
				doc.Puzzle = p.Snapshot()
				doc.UpdatedAt = now
				cfg.UpsertDocument(doc)
				cfg.Active = doc.ID
				created = doc
				return nil
			})
			if err != nil {
				return err
			}
			root.logger().Debug("document created", "id", created.ID, "path", store.Path())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%s) %dx%d\n", created.Name, created.ID, rows, cols)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 5, "Number of rows")
	cmd.Flags().IntVar(&cols, "cols", 5, "Number of columns")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing document with the same name")
	return cmd
}

func newListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := root.store()
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			if len(cfg.Documents) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No documents.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ACTIVE\tID\tNAME\tSIZE\tUPDATED")
			for _, d := range cfg.Documents {
				mark := ""
				if d.ID == cfg.Active {
					mark = "*"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%s\n",
					mark, d.ID, d.Name, d.Puzzle.Rows, d.Puzzle.Cols, d.UpdatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newUseCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use <document>",
		Short: "Make a document the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.store()
			if err != nil {
				return err
			}
			var picked config.Document
			err = store.Update(func(cfg *config.Config) error {
				d, ok := cfg.FindDocument(args[0])
				if !ok {
					return fmt.Errorf("document %q not found", args[0])
				}
				cfg.Active = d.ID
				picked = d
				return nil
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Active document: %q (%s)\n", picked.Name, picked.ID)
			return nil
		},
	}
}

func newRemoveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <document>",
		Short: "Delete a saved document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.store()
			if err != nil {
				return err
			}
			err = store.Update(func(cfg *config.Config) error {
				d, ok := cfg.FindDocument(args[0])
				if !ok {
					return fmt.Errorf("document %q not found", args[0])
				}
				cfg.RemoveDocument(d.ID)
				return nil
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", args[0])
			return nil
		},
	}
}

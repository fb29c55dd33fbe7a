package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/config"
	errs "github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/history"
	"github.com/matzehuels/gridboard/pkg/session"
	"github.com/matzehuels/gridboard/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and manage persisted boards",
	}

	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storeExportCommand())
	cmd.AddCommand(c.storeImportCommand())

	return cmd
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the board is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			sc, err := cfg.StoreConfig()
			if err != nil {
				return err
			}
			printKeyValue("Backend", sc.Backend)
			printKeyValue("Namespace", cfg.Store.Namespace)
			switch sc.Backend {
			case store.BackendFile, store.BackendSQLite:
				printKeyValue("Location", sc.Path)
			case store.BackendRedis:
				printKeyValue("Location", fmt.Sprintf("redis://%s/%d", sc.RedisAddr, sc.RedisDB))
			case store.BackendMongo:
				printKeyValue("Location", sc.MongoURI+" ("+sc.MongoDatabase+")")
			}
			if path, err := config.Path(); err == nil && c.configPath == "" {
				printKeyValue("Config", path)
			}
			return nil
		},
	}
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every key of the current board",
		Long:  `Delete the layout, history and UI keys of the current namespace. Other boards in the same store are untouched.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPersister(c.context(cmd), func(ctx context.Context, p *session.Persister, cfg config.Config) error {
				start := time.Now()
				if err := p.Clear(ctx); err != nil {
					return err
				}
				logElapsed(c.Logger, start, "cleared board", "namespace", cfg.Store.Namespace)
				printSuccess("Cleared board %s", StyleHighlight.Render(cfg.Store.Namespace))
				return nil
			})
		},
	}
}

// boardExport is the portable form of a persisted board.
type boardExport struct {
	Namespace string          `json:"namespace"`
	Layout    grid.Layout     `json:"layout"`
	History   []grid.Layout   `json:"history"`
	Cursor    int             `json:"history_index"`
	UI        session.UIState `json:"ui"`
}

// storeExportCommand creates the "store export" subcommand.
func (c *CLI) storeExportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board and its history as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPersister(c.context(cmd), func(ctx context.Context, p *session.Persister, cfg config.Config) error {
				loaded, err := p.Load(ctx)
				if err != nil {
					return err
				}
				if loaded.Skipped > 0 {
					printWarning("%d keys were unreadable and exported as defaults", loaded.Skipped)
				}
				data, err := json.MarshalIndent(boardExport{
					Namespace: cfg.Store.Namespace,
					Layout:    loaded.Layout,
					History:   loaded.History,
					Cursor:    loaded.Cursor,
					UI:        loaded.UI,
				}, "", "  ")
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					fmt.Fprintln(output, string(data))
					return nil
				}
				if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
					return err
				}
				printSuccess("Exported %d blocks, %d snapshots", loaded.Layout.Len(), len(loaded.History))
				printDetail("File: %s", out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")

	return cmd
}

// storeImportCommand creates the "store import" subcommand.
func (c *CLI) storeImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the board with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := readExport(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return c.withPersister(c.context(cmd), func(ctx context.Context, p *session.Persister, cfg config.Config) error {
				start := time.Now()
				if err := p.Save(ctx, session.Snapshot{
					Layout:  exp.Layout,
					History: exp.History,
					Cursor:  exp.Cursor,
					UI:      exp.UI,
				}); err != nil {
					return err
				}
				logElapsed(c.Logger, start, "imported board", "namespace", cfg.Store.Namespace, "blocks", exp.Layout.Len())
				printSuccess("Imported %d blocks, %d snapshots into %s",
					exp.Layout.Len(), len(exp.History), StyleHighlight.Render(cfg.Store.Namespace))
				return nil
			})
		},
	}
}

// readExport decodes and checks an export. Every layout must satisfy the
// grid invariants and the cursor must address a snapshot.
func readExport(path string, stdin io.Reader) (boardExport, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return boardExport{}, err
	}

	var exp boardExport
	if err := json.Unmarshal(data, &exp); err != nil {
		return boardExport{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode %s", path)
	}
	if err := exp.Layout.Validate(); err != nil {
		return boardExport{}, err
	}
	for i, snap := range exp.History {
		if err := snap.Validate(); err != nil {
			return boardExport{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "snapshot %d", i)
		}
	}
	if _, err := history.Restore(exp.History, exp.Cursor); err != nil {
		return boardExport{}, err
	}
	if exp.UI.SelectedID != "" && exp.Layout.Index(exp.UI.SelectedID) < 0 {
		exp.UI.SelectedID = ""
	}
	return exp, nil
}

// withPersister runs fn against the current board's keys without opening
// a session.
func (c *CLI) withPersister(ctx context.Context, fn func(context.Context, *session.Persister, config.Config) error) (err error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); err == nil {
			err = cerr
		}
	}()
	scoped, err := session.NamespaceStore(st, cfg.Store.Namespace)
	if err != nil {
		return err
	}
	return fn(ctx, session.NewPersister(scoped, loggerFromContext(ctx)), cfg)
}

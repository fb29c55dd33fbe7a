package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/config"
	"github.com/matzehuels/gridboard/pkg/session"
	"github.com/matzehuels/gridboard/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Global flag values.
	configPath string
	backend    string
	storePath  string
	namespace  string
	noSave     bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// context returns the command's context with the CLI logger attached.
func (c *CLI) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return withLogger(ctx, c.Logger)
}

// =============================================================================
// Config & Session Factory
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if c.storePath != "" {
		cfg.Store.Path = c.storePath
	}
	if c.namespace != "" {
		cfg.Store.Namespace = c.namespace
	}
	if c.noSave {
		cfg.Store.Backend = store.BackendNull
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	c.Logger.Debug("config loaded", "backend", cfg.Store.Backend, "namespace", cfg.Store.Namespace)
	return cfg, nil
}

// openStore opens the configured backend. Remote backends show a spinner
// while connecting.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	sc, err := cfg.StoreConfig()
	if err != nil {
		return nil, err
	}
	remote := sc.Backend == store.BackendRedis || sc.Backend == store.BackendMongo
	if !remote {
		return store.Open(ctx, sc)
	}

	var st store.Store
	err = withSpinner(ctx, fmt.Sprintf("Connecting to %s...", sc.Backend), func(ctx context.Context) error {
		var err error
		st, err = store.Open(ctx, sc)
		return err
	})
	if err != nil {
		printError("Could not reach %s", sc.Backend)
		return nil, err
	}
	return st, nil
}

// board is an open session plus the resources behind it.
type board struct {
	sess  *session.Session
	store store.Store
	cfg   config.Config
}

// close flushes the session and releases the store.
func (b *board) close(ctx context.Context) error {
	err := b.sess.Close(ctx)
	if cerr := b.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// openBoard loads config, opens the store and restores the session.
func (c *CLI) openBoard(ctx context.Context) (*board, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := c.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := cfg.SessionOptions()
	opts.Store = st
	opts.Logger = loggerFromContext(ctx)
	sess, err := session.Open(ctx, opts)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &board{sess: sess, store: st, cfg: cfg}, nil
}

// withBoard runs fn against an open board and always closes it, which
// flushes any pending snapshot and saves.
func (c *CLI) withBoard(ctx context.Context, fn func(context.Context, *board) error) (err error) {
	b, err := c.openBoard(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// Save even when ctx was cancelled by an interrupt.
		if cerr := b.close(context.WithoutCancel(ctx)); err == nil {
			err = cerr
		}
	}()
	return fn(ctx, b)
}

// =============================================================================
// Argument Helpers
// =============================================================================

// resolveBlockID accepts a full id or a unique prefix or suffix of one.
// Listings show the last eight characters, which are the random part of
// a v7 UUID.
func resolveBlockID(sess *session.Session, arg string) (string, error) {
	layout := sess.Layout()
	if _, ok := layout.Get(arg); ok {
		return arg, nil
	}
	var match string
	for _, b := range layout.Blocks() {
		if strings.HasPrefix(b.ID, arg) || strings.HasSuffix(b.ID, arg) {
			if match != "" {
				return "", fmt.Errorf("block id %q is ambiguous", arg)
			}
			match = b.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no block matches %q", arg)
	}
	return match, nil
}

// blockIDCompletion completes the first argument with the short ids of
// the current board's blocks. The board is read, never saved.
func (c *CLI) blockIDCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	b, err := c.openBoard(c.context(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer b.store.Close()

	var ids []string
	for _, block := range b.sess.Layout().Sorted() {
		id := shortID(block.ID)
		if strings.HasPrefix(id, toComplete) {
			ids = append(ids, id+"\t"+string(block.Kind)+" at "+block.Position.String())
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// shortID trims an id for display.
func shortID(id string) string {
	const n = 8
	if len(id) <= n {
		return id
	}
	return id[len(id)-n:]
}

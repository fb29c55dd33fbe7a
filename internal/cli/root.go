package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/buildinfo"
	"github.com/matzehuels/gridboard/pkg/store"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Global flags select the config file and override its store settings:
//
//	gridboard --store sqlite --namespace work add text
//	gridboard --no-save editor
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Gridboard arranges text and image blocks on a 12-column grid",
		Long:          `Gridboard is a CLI for composing page layouts from text and image blocks on a 12-column grid, with drag-style moves, edge resizing and full undo/redo.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gridboard/config.toml)")
	flags.StringVar(&c.backend, "store", "", "store backend: "+joinBackends())
	flags.StringVar(&c.storePath, "store-path", "", "directory (file) or database file (sqlite) for the store")
	flags.StringVar(&c.namespace, "namespace", "", "board name; boards in one store are isolated by namespace")
	flags.BoolVar(&c.noSave, "no-save", false, "do not persist anything")

	_ = root.RegisterFlagCompletionFunc("store", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return store.Backends(), cobra.ShellCompDirectiveNoFileComp
	})

	// Block commands
	root.AddCommand(c.addCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.deleteCommand())

	// History commands
	root.AddCommand(c.undoCommand())
	root.AddCommand(c.redoCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.clearCommand())

	// UI state
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.previewCommand())

	// Viewing & serving
	root.AddCommand(c.showCommand())
	root.AddCommand(c.editorCommand())
	root.AddCommand(c.serveCommand())

	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func joinBackends() string {
	return strings.Join(store.Backends(), "|")
}

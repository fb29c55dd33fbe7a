package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var (
		asJSON    bool
		list      bool
		cellWidth int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Draw the board",
		Long: `Draw the board in the terminal.

The board is drawn in edit or preview mode according to the saved UI state
(see "gridboard preview"). --list prints a table of blocks instead, and
--json prints the full session state for scripting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				st := b.sess.State()
				switch {
				case asJSON:
					data, err := json.MarshalIndent(st, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(output, string(data))
				case list:
					if st.Layout.Empty() {
						printInfo("Board is empty")
						return nil
					}
					fmt.Fprintln(output, blockTable(st.Layout, st.UI.SelectedID))
				default:
					fmt.Fprintln(output, renderGrid(st.Layout, renderOptions{
						cellWidth: cellWidth,
						selected:  st.UI.SelectedID,
						preview:   st.UI.PreviewMode,
					}))
					if !st.UI.PreviewMode && st.Length > 0 {
						printHistoryLine(st.Cursor, st.Length, st.CanUndo, st.CanRedo)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the session state as JSON")
	cmd.Flags().BoolVar(&list, "list", false, "print a table of blocks")
	cmd.Flags().IntVar(&cellWidth, "cell-width", defaultCellWidth, "terminal columns per grid column")
	cmd.MarkFlagsMutuallyExclusive("json", "list")

	return cmd
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "preview [on|off]",
		Short:     "Toggle or set preview mode",
		Long:      `Preview mode hides ids, free cells and selection when drawing the board. The setting is saved with the board.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				on := !b.sess.State().UI.PreviewMode
				if len(args) == 1 {
					switch args[0] {
					case "on":
						on = true
					case "off":
						on = false
					default:
						return fmt.Errorf("invalid preview mode %q (want on or off)", args[0])
					}
				}
				if err := b.sess.SetPreviewMode(ctx, on); err != nil {
					return err
				}
				if on {
					printSuccess("Preview mode on")
				} else {
					printSuccess("Preview mode off")
				}
				return nil
			})
		},
	}
}

// selectCommand creates the select command.
func (c *CLI) selectCommand() *cobra.Command {
	var none bool

	cmd := &cobra.Command{
		Use:   "select [id]",
		Short: "Highlight a block",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if none == (len(args) == 1) {
				return fmt.Errorf("give a block id or --none")
			}
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				id := ""
				if !none {
					var err error
					if id, err = resolveBlockID(b.sess, args[0]); err != nil {
						return err
					}
				}
				if _, err := b.sess.Select(ctx, id); err != nil {
					return err
				}
				if id == "" {
					printSuccess("Selection cleared")
				} else {
					printSuccess("Selected %s", StyleHighlight.Render(shortID(id)))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&none, "none", false, "clear the selection")

	return cmd
}

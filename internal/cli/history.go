package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// undoCommand creates the undo command.
func (c *CLI) undoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Step back to the previous snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				moved, err := b.sess.Undo(ctx)
				if err != nil {
					return err
				}
				if !moved {
					printInfo("Nothing to undo")
					return nil
				}
				st := b.sess.State()
				printSuccess("Undone")
				printHistoryLine(st.Cursor, st.Length, st.CanUndo, st.CanRedo)
				return nil
			})
		},
	}
}

// redoCommand creates the redo command.
func (c *CLI) redoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Step forward to the next snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				moved, err := b.sess.Redo(ctx)
				if err != nil {
					return err
				}
				if !moved {
					printInfo("Nothing to redo")
					return nil
				}
				st := b.sess.State()
				printSuccess("Redone")
				printHistoryLine(st.Cursor, st.Length, st.CanUndo, st.CanRedo)
				return nil
			})
		},
	}
}

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the undo/redo snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				h := b.sess.History()
				if len(h.Snapshots) == 0 {
					printInfo("History is empty")
					return nil
				}
				fmt.Fprintln(output, historyTable(h.Snapshots, h.Cursor))
				printNewline()
				printKeyValue("Snapshots", fmt.Sprintf("%d of %d", len(h.Snapshots), h.Limit))
				printKeyValue("Cursor", fmt.Sprintf("%d", h.Cursor))
				return nil
			})
		},
	}
}

// clearCommand creates the clear command.
func (c *CLI) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every block and forget the history",
		Long:  `Remove every block and reset the history. This cannot be undone.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				n := b.sess.Layout().Len()
				if err := b.sess.ClearAll(ctx); err != nil {
					return err
				}
				printSuccess("Cleared %d blocks", n)
				return nil
			})
		},
	}
}

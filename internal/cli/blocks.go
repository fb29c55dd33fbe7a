package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/grid"
)

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "add <text|image>",
		Short:     "Add a block at the next free slot",
		Long:      `Add a block with default content and width 6. Blocks fill a row left to right and wrap to a new row when the current one is full.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(grid.KindText), string(grid.KindImage)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := grid.ParseKind(args[0])
			if err != nil {
				return err
			}
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				block, err := b.sess.AddBlock(ctx, kind)
				if err != nil {
					return err
				}
				printSuccess("Added %s", describeBlock(block))
				printNextStep("Edit its content", "gridboard edit "+shortID(block.ID)+" --content ...")
				return nil
			})
		},
	}
}

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	var (
		col, row int
		x, y     float64
	)

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a block to a cell or swap it with the block there",
		Long: `Move a block as if it were dropped on the grid.

Target a cell with --col/--row, or give a pixel drop point with --x/--y
relative to the grid container. Dropping onto another block swaps the two;
dropping onto free cells moves the block there if its span fits.`,
		Example: `  gridboard move 4f1c2a9e --col 6 --row 0
  gridboard move 4f1c2a9e --x 650 --y 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			byCell := flags.Changed("col") || flags.Changed("row")
			byPoint := flags.Changed("x") || flags.Changed("y")
			if byCell == byPoint {
				return errors.New("give either --col/--row or --x/--y")
			}

			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				id, err := resolveBlockID(b.sess, args[0])
				if err != nil {
					return err
				}
				var applied bool
				if byCell {
					applied, err = b.sess.MoveTo(ctx, id, grid.Position{X: col, Y: row})
				} else {
					applied, err = b.sess.Move(ctx, id, grid.Point{X: x, Y: y})
				}
				if err != nil {
					return err
				}
				if !applied {
					printWarning("Move rejected: target is out of bounds or overlaps another block")
					return nil
				}
				block, _ := b.sess.Layout().Get(id)
				printSuccess("Moved %s %s %s", StyleHighlight.Render(shortID(id)), iconArrow, block.Position)
				return nil
			})
		},
	}

	cmd.ValidArgsFunction = c.blockIDCompletion
	cmd.Flags().IntVar(&col, "col", 0, "target column (0-11)")
	cmd.Flags().IntVar(&row, "row", 0, "target row")
	cmd.Flags().Float64Var(&x, "x", 0, "drop point x in pixels")
	cmd.Flags().Float64Var(&y, "y", 0, "drop point y in pixels")
	cmd.MarkFlagsRequiredTogether("col", "row")
	cmd.MarkFlagsRequiredTogether("x", "y")

	return cmd
}

// resizeCommand creates the resize command. It replays a whole edge drag:
// begin, one pointer move, release.
func (c *CLI) resizeCommand() *cobra.Command {
	var (
		by   float64
		cols int
	)

	cmd := &cobra.Command{
		Use:   "resize <id> <left|right>",
		Short: "Drag a block's left or right edge",
		Long: `Resize a block by dragging one of its edges.

--by is the drag distance in pixels (100px per column by default, rounded
to the nearest column). --cols drags by whole columns. Dragging the left
edge keeps the right edge fixed. A drag past the grid edge is rejected.`,
		Example: `  gridboard resize 4f1c2a9e right --by 250
  gridboard resize 4f1c2a9e left --cols -2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := grid.ParseDirection(args[1])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("by") == cmd.Flags().Changed("cols") {
				return errors.New("give either --by or --cols")
			}

			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				id, err := resolveBlockID(b.sess, args[0])
				if err != nil {
					return err
				}
				delta := by
				if cmd.Flags().Changed("cols") {
					delta = float64(cols) * b.sess.Grid().ResizeStep
				}

				block, applied, err := b.sess.ResizeGesture(ctx, id, dir, delta)
				if err != nil {
					return err
				}
				if !applied {
					printWarning("Resize rejected: the edge would leave the grid or the drag rounds to no change")
					return nil
				}
				printSuccess("Resized %s", describeBlock(block))
				return nil
			})
		},
	}

	cmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 1 {
			return []string{string(grid.Left), string(grid.Right)}, cobra.ShellCompDirectiveNoFileComp
		}
		return c.blockIDCompletion(cmd, args, toComplete)
	}
	cmd.Flags().Float64Var(&by, "by", 0, "drag distance in pixels (negative drags left)")
	cmd.Flags().IntVar(&cols, "cols", 0, "drag distance in columns")

	return cmd
}

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		content  string
		width    int
		col, row int
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a block's content, width or position",
		Long: `Replace fields of a block in one undoable step.

Unlike move, edit places the block exactly where asked without swapping;
the result must stay inside the grid and must not overlap other blocks.`,
		Example: `  gridboard edit 4f1c2a9e --content "Hello, grid"
  gridboard edit 4f1c2a9e --width 4 --col 8 --row 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("content") && !flags.Changed("width") && !flags.Changed("col") && !flags.Changed("row") {
				return errors.New("nothing to edit: give --content, --width, --col or --row")
			}

			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				id, err := resolveBlockID(b.sess, args[0])
				if err != nil {
					return err
				}
				current, _ := b.sess.Layout().Get(id)
				block := current
				if flags.Changed("content") {
					block.Content = content
				}
				if flags.Changed("width") {
					block.Width = width
				}
				if flags.Changed("col") {
					block.Position.X = col
				}
				if flags.Changed("row") {
					block.Position.Y = row
				}
				if block == current {
					printInfo("Nothing to change")
					return nil
				}
				if _, err := b.sess.PlaceBlock(ctx, block, false); err != nil {
					return err
				}
				printSuccess("Updated %s", describeBlock(block))
				return nil
			})
		},
	}

	cmd.ValidArgsFunction = c.blockIDCompletion
	cmd.Flags().StringVar(&content, "content", "", "new content (text, or an http(s) URL for images)")
	cmd.Flags().IntVar(&width, "width", 0, "new width in columns (1-12)")
	cmd.Flags().IntVar(&col, "col", 0, "new column")
	cmd.Flags().IntVar(&row, "row", 0, "new row")

	return cmd
}

// deleteCommand creates the delete command.
func (c *CLI) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <id>",
		Aliases:           []string{"rm"},
		Short:             "Remove a block",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.blockIDCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				id, err := resolveBlockID(b.sess, args[0])
				if err != nil {
					return err
				}
				if _, err := b.sess.DeleteBlock(ctx, id); err != nil {
					return err
				}
				printSuccess("Deleted %s", StyleHighlight.Render(shortID(id)))
				printNextStep("Changed your mind", "gridboard undo")
				return nil
			})
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/session"
)

// Editor styles
var (
	editorHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editorStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	editorErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	editorModeStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// editorCommand creates the interactive editor command.
func (c *CLI) editorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "editor",
		Short: "Edit the board interactively",
		Long: `Open a full-screen editor over the board.

Keys:
  tab / shift+tab   select next / previous block
  arrows, hjkl      move the selected block one cell (swaps with neighbours)
  [ ]               drag the right edge one column left / right
  { }               drag the left edge one column left / right
  enter             finish a resize drag or text edit
  e                 edit the selected block's content
  t / i             add a text / image block
  x, delete         delete the selected block
  u / r             undo / redo
  p                 toggle preview mode
  q                 quit (the board is saved)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				p := tea.NewProgram(newEditorModel(ctx, b.sess), tea.WithAltScreen(), tea.WithContext(ctx))
				_, err := p.Run()
				return err
			})
		},
	}
}

// editorMode is what keystrokes currently drive.
type editorMode int

const (
	modeNormal editorMode = iota
	modeResize
	modeText
)

// editorModel is the bubbletea model for the interactive editor. All
// board state lives in the session; the model only tracks the gesture in
// progress.
type editorModel struct {
	ctx  context.Context
	sess *session.Session

	mode      editorMode
	dragDir   grid.Direction
	dragDelta float64
	draft     []rune

	width  int
	status string
	err    error
}

func newEditorModel(ctx context.Context, sess *session.Session) editorModel {
	return editorModel{ctx: ctx, sess: sess}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		m.err = nil
		if m.mode == modeText {
			return m.updateText(msg), nil
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m = m.endDrag()
			return m, tea.Quit
		}
		return m.updateNormal(msg), nil
	}
	return m, nil
}

func (m editorModel) updateNormal(msg tea.KeyMsg) editorModel {
	key := msg.String()
	switch key {
	case "]":
		return m.drag(grid.Right, 1)
	case "[":
		return m.drag(grid.Right, -1)
	case "}":
		return m.drag(grid.Left, 1)
	case "{":
		return m.drag(grid.Left, -1)
	}

	m = m.endDrag()
	if m.err != nil {
		return m
	}

	switch key {
	case "tab":
		return m.cycle(1)
	case "shift+tab":
		return m.cycle(-1)
	case "left", "h":
		return m.step(-1, 0)
	case "right", "l":
		return m.step(1, 0)
	case "up", "k":
		return m.step(0, -1)
	case "down", "j":
		return m.step(0, 1)
	case "t":
		return m.add(grid.KindText)
	case "i":
		return m.add(grid.KindImage)
	case "e":
		if b, ok := m.selected(); ok {
			m.mode = modeText
			m.draft = []rune(b.Content)
			m.status = "Editing " + shortID(b.ID)
		}
	case "x", "delete":
		if b, ok := m.selected(); ok {
			_, m.err = m.sess.DeleteBlock(m.ctx, b.ID)
			m.status = "Deleted " + shortID(b.ID)
		}
	case "u", "ctrl+z":
		moved, err := m.sess.Undo(m.ctx)
		m.err = err
		m.status = pick(moved, "Undone", "Nothing to undo")
	case "r", "ctrl+y":
		moved, err := m.sess.Redo(m.ctx)
		m.err = err
		m.status = pick(moved, "Redone", "Nothing to redo")
	case "p":
		on := !m.sess.State().UI.PreviewMode
		m.err = m.sess.SetPreviewMode(m.ctx, on)
		m.status = pick(on, "Preview mode on", "Preview mode off")
	}
	return m
}

// updateText edits the selected block's content. Every keystroke is a live
// update, so a burst of typing lands in history as one snapshot.
func (m editorModel) updateText(msg tea.KeyMsg) editorModel {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeyCtrlC:
		m.mode = modeNormal
		m.err = m.sess.Flush(m.ctx)
		m.status = "Content saved"
		return m
	case tea.KeyBackspace:
		if len(m.draft) > 0 {
			m.draft = m.draft[:len(m.draft)-1]
		}
	case tea.KeySpace:
		m.draft = append(m.draft, ' ')
	case tea.KeyRunes:
		m.draft = append(m.draft, msg.Runes...)
	default:
		return m
	}

	b, ok := m.selected()
	if !ok {
		m.mode = modeNormal
		return m
	}
	b.Content = string(m.draft)
	_, m.err = m.sess.UpdateBlockLive(m.ctx, b)
	return m
}

// drag advances a resize drag on the selected block by one column step.
// Steps the engine rejects are not accumulated, so the drag resumes from
// the last accepted span.
func (m editorModel) drag(dir grid.Direction, steps int) editorModel {
	b, ok := m.selected()
	if !ok {
		return m
	}
	if m.mode != modeResize || m.dragDir != dir {
		if m = m.endDrag(); m.err != nil {
			return m
		}
		if _, m.err = m.sess.BeginResize(m.ctx, b.ID, dir); m.err != nil {
			return m
		}
		m.mode, m.dragDir, m.dragDelta = modeResize, dir, 0
	}

	delta := m.dragDelta + float64(steps)*m.sess.Grid().ResizeStep
	live, moved, err := m.sess.ResizeTo(m.ctx, delta)
	if m.err = err; err != nil {
		return m
	}
	if moved {
		m.dragDelta = delta
		m.status = fmt.Sprintf("Resizing %s: width %d", shortID(live.ID), live.Width)
	} else {
		m.status = "Edge is at the grid boundary"
	}
	return m
}

func (m editorModel) endDrag() editorModel {
	if m.mode != modeResize {
		return m
	}
	m.mode = modeNormal
	changed, err := m.sess.EndResize(m.ctx)
	m.err = err
	if changed {
		m.status = "Resized"
	}
	return m
}

// cycle moves the selection through the blocks in reading order.
func (m editorModel) cycle(dir int) editorModel {
	blocks := m.sess.Layout().Sorted()
	if len(blocks) == 0 {
		return m
	}
	next := 0
	if b, ok := m.selected(); ok {
		for i := range blocks {
			if blocks[i].ID == b.ID {
				next = (i + dir + len(blocks)) % len(blocks)
				break
			}
		}
	}
	_, m.err = m.sess.Select(m.ctx, blocks[next].ID)
	m.status = ""
	return m
}

// step drops the selected block on the centre of the neighbouring cell,
// which moves it there or swaps it with the block occupying that cell.
func (m editorModel) step(dx, dy int) editorModel {
	b, ok := m.selected()
	if !ok {
		return m
	}
	target := grid.Position{X: b.Position.X + dx, Y: b.Position.Y + dy}
	drop := m.sess.Grid().Center(target, m.sess.ContainerWidth())
	applied, err := m.sess.Move(m.ctx, b.ID, drop)
	m.err = err
	m.status = pick(applied, "Moved to "+target.String(), "Cannot move there")
	return m
}

func (m editorModel) add(kind grid.Kind) editorModel {
	b, err := m.sess.AddBlock(m.ctx, kind)
	if m.err = err; err != nil {
		return m
	}
	_, m.err = m.sess.Select(m.ctx, b.ID)
	m.status = "Added " + string(kind) + " block " + shortID(b.ID)
	return m
}

func (m editorModel) selected() (grid.Block, bool) {
	st := m.sess.State()
	if st.UI.SelectedID == "" {
		return grid.Block{}, false
	}
	return st.Layout.Get(st.UI.SelectedID)
}

func (m editorModel) View() string {
	st := m.sess.State()
	var b strings.Builder

	b.WriteString(StyleTitle.Render("gridboard"))
	switch m.mode {
	case modeResize:
		b.WriteString("  " + editorModeStyle.Render("RESIZE "+strings.ToUpper(string(m.dragDir))))
	case modeText:
		b.WriteString("  " + editorModeStyle.Render("TEXT"))
	}
	if st.UI.PreviewMode {
		b.WriteString("  " + StyleDim.Render("preview"))
	}
	b.WriteString("\n\n")

	b.WriteString(renderGrid(st.Layout, renderOptions{
		cellWidth: cellWidthFor(m.width),
		selected:  st.UI.SelectedID,
		preview:   st.UI.PreviewMode,
	}))
	b.WriteString("\n\n")

	if m.mode == modeText {
		b.WriteString("> " + string(m.draft) + "█\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(editorErrorStyle.Render(iconError + " " + errs.UserMessage(m.err)))
	case m.status != "":
		b.WriteString(editorStatusStyle.Render(m.status))
	}
	b.WriteString("\n")

	hist := fmt.Sprintf("snapshot %d/%d", st.Cursor+1, st.Length)
	if st.Pending {
		hist += " (pending)"
	}
	b.WriteString(editorHelpStyle.Render(hist))
	b.WriteString("\n")
	b.WriteString(editorHelpStyle.Render("tab select  arrows move  [ ] { } resize  e edit  t/i add  x delete  u/r undo/redo  p preview  q quit"))

	return b.String()
}

func pick(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

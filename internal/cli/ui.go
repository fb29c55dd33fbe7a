package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// output receives command results. Tests swap it for a buffer.
var output io.Writer = os.Stdout

// Palette, in ANSI 256 colours.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight renders block ids and other values the user may type back.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleWarningText = lipgloss.NewStyle().Foreground(colorYellow)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconError = "✗"
	iconArrow = "→"
)

// statusKind selects the icon and colour of a status line.
type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusWarning
	statusInfo
)

var statusIcons = [...]struct {
	icon  string
	style lipgloss.Style
}{
	statusSuccess: {"✓", lipgloss.NewStyle().Foreground(colorGreen)},
	statusError:   {iconError, lipgloss.NewStyle().Foreground(colorRed)},
	statusWarning: {"!", lipgloss.NewStyle().Foreground(colorYellow)},
	statusInfo:    {"›", lipgloss.NewStyle().Foreground(colorGray)},
}

func printStatus(kind statusKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if kind == statusWarning {
		msg = styleWarningText.Render(msg)
	}
	s := statusIcons[kind]
	fmt.Fprintln(output, s.style.Render(s.icon), msg)
}

func printSuccess(format string, args ...any) { printStatus(statusSuccess, format, args...) }
func printError(format string, args ...any)   { printStatus(statusError, format, args...) }
func printWarning(format string, args ...any) { printStatus(statusWarning, format, args...) }
func printInfo(format string, args ...any)    { printStatus(statusInfo, format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(output, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(output, styleKey.Render(key), styleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(output, StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

// printHistoryLine prints the cursor position and which of undo and redo
// are available, e.g. "snapshot 2/3 · undo · redo".
func printHistoryLine(cursor, length int, canUndo, canRedo bool) {
	parts := []string{fmt.Sprintf("snapshot %d/%d", cursor+1, length)}
	if canUndo {
		parts = append(parts, "undo")
	}
	if canRedo {
		parts = append(parts, "redo")
	}
	fmt.Fprintln(output, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

func printNewline() {
	fmt.Fprintln(output)
}

package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"refu/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	locationDim  = color.New(color.Faint)
	caretColor   = color.New(color.FgRed, color.Bold)
	noteColor    = color.New(color.FgBlue)
)

func severityColor(s Severity) *color.Color {
	switch s {
	case SevSyntaxError, SevSemanticError:
		return errorColor
	case SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

// Format renders a source-annotated, severity-colored rendition of d to w.
// Column alignment of the caret line accounts for multi-width runes via
// go-runewidth, so diagnostics over non-ASCII source line up correctly.
func Format(w io.Writer, fs *source.FileSet, d Diagnostic) {
	pos := fs.Position(d.Primary)
	file := fs.Get(d.Primary.File)
	name := "<unknown>"
	if file != nil {
		name = file.Name
	}

	sevColor := severityColor(d.Severity)
	fmt.Fprintf(w, "%s: %s\n", sevColor.Sprint(d.Severity.String()), d.Message)
	fmt.Fprintf(w, "  %s %s:%s\n", locationDim.Sprint("-->"), name, pos.String())

	if file != nil {
		printExcerpt(w, file, pos, d.Primary)
	}

	for _, n := range d.Notes {
		npos := fs.Position(n.Span)
		fmt.Fprintf(w, "  %s %s (%s)\n", noteColor.Sprint("note:"), n.Msg, npos.String())
	}
}

func printExcerpt(w io.Writer, f *source.File, pos source.Position, span source.Span) {
	lines := strings.Split(f.Content, "\n")
	if int(pos.Line) >= len(lines) {
		return
	}
	line := lines[pos.Line]
	fmt.Fprintf(w, "      %s\n", line)

	width := runewidth.StringWidth(safeSlice(line, 0, int(pos.Col)))
	caretLen := int(span.Len())
	if caretLen < 1 {
		caretLen = 1
	}
	fmt.Fprintf(w, "      %s%s\n", strings.Repeat(" ", width), caretColor.Sprint(strings.Repeat("^", caretLen)))
}

func safeSlice(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		return ""
	}
	return s[start:end]
}

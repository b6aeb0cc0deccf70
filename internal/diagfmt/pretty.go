package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"kira/internal/diag"
	"kira/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой печатает
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span и Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	bag.Sort()
	p := printer{w: w, fs: fs, opts: opts}
	for _, d := range bag.Items() {
		p.diagnostic(d)
	}
}

// PrettyError prints a single compile error the way Pretty prints a diagnostic.
func PrettyError(w io.Writer, err *diag.Error, opts PrettyOpts) {
	p := printer{w: w, opts: opts}
	head := p.sevColor(diag.SevError).Sprintf("error[%s]", err.Code.ID())
	if err.Pos != "" {
		fmt.Fprintf(w, "%s: %s: %s\n", head, err.Pos, err.Msg)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", head, err.Msg)
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p printer) sevColor(sev diag.Severity) *color.Color {
	var c *color.Color
	switch sev {
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	if p.opts.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (p printer) diagnostic(d diag.Diagnostic) {
	fmt.Fprintf(p.w, "%s: %s: %s\n",
		p.fs.Position(d.Primary),
		p.sevColor(d.Severity).Sprintf("%s %s", strings.ToUpper(d.Severity.String()), d.Code.ID()),
		d.Message)
	p.snippet(d.Primary, d.Severity)
	if !p.opts.Notes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(p.w, "  %s: %s: %s\n", p.fs.Position(n.Span), p.sevColor(diag.SevInfo).Sprint("note"), n.Msg)
		p.snippet(n.Span, diag.SevInfo)
	}
}

func (p printer) snippet(span source.Span, sev diag.Severity) {
	f := p.fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := p.fs.Resolve(span)
	lines := bytes.Split(f.Content, []byte{'\n'})
	line := int(start.Line)
	if line < 1 || line > len(lines) {
		return
	}
	from := max(line-int(p.opts.Context), 1)
	to := min(line+int(p.opts.Context), len(lines))
	gutter := len(fmt.Sprint(to))
	for i := from; i <= to; i++ {
		fmt.Fprintf(p.w, "%*d | %s\n", gutter, i, strings.TrimRight(string(lines[i-1]), "\r"))
		if i != line {
			continue
		}
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			width = int(end.Col - start.Col)
		}
		mark := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(p.w, "%*s | %s%s\n", gutter, "", strings.Repeat(" ", int(start.Col)-1), p.sevColor(sev).Sprint(mark))
	}
}

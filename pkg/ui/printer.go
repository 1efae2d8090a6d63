// Package ui renders fnbundle's human-readable output.
package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/productbrew/fnbundle/pkg/errors"
	"github.com/pterm/pterm"
)

// Printer writes progress messages, diffs and errors
type Printer struct {
	w      io.Writer
	format Format

	success pterm.PrefixPrinter
	info    pterm.PrefixPrinter
	warning pterm.PrefixPrinter
	errorP  pterm.PrefixPrinter

	errorStyle lipgloss.Style
	codeStyle  lipgloss.Style
}

// NewPrinter creates a printer for w. FormatAuto picks styled output only
// for color-capable terminals.
func NewPrinter(w io.Writer, format Format) *Printer {
	p := &Printer{
		w:       w,
		format:  resolve(format, w),
		success: *pterm.Success.WithWriter(w),
		info:    *pterm.Info.WithWriter(w),
		warning: *pterm.Warning.WithWriter(w),
		errorP:  *pterm.Error.WithWriter(w),
	}

	r := lipgloss.NewRenderer(w)
	p.errorStyle = r.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)
	p.codeStyle = r.NewStyle().
		Foreground(lipgloss.Color("8"))
	return p
}

// Styled reports whether output carries colors
func (p *Printer) Styled() bool {
	return p.format == FormatTerminal
}

// Success prints a completed step
func (p *Printer) Success(format string, args ...interface{}) {
	p.print(p.success, "OK", format, args...)
}

// Info prints a progress message
func (p *Printer) Info(format string, args ...interface{}) {
	p.print(p.info, "INFO", format, args...)
}

// Warning prints a problem that did not stop the run
func (p *Printer) Warning(format string, args ...interface{}) {
	p.print(p.warning, "WARNING", format, args...)
}

// Println prints a line as is
func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.w, a...)
}

// Diff prints a unified diff, coloring added and removed lines
func (p *Printer) Diff(diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		if !p.Styled() {
			fmt.Fprint(p.w, line)
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(p.w, pterm.Bold.Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(p.w, pterm.FgGreen.Sprint(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(p.w, pterm.FgRed.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(p.w, pterm.FgCyan.Sprint(line))
		default:
			fmt.Fprint(p.w, line)
		}
	}
}

// Finished prints the elapsed time of the whole run
func (p *Printer) Finished(elapsed time.Duration) {
	fmt.Fprintf(p.w, "\nFinished in %d ms\n", elapsed.Milliseconds())
}

// Error prints err with its category and code
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.RenderError(err))
}

// RenderError formats err for display. Errors from pkg/errors show their
// category and code.
func (p *Printer) RenderError(err error) string {
	msg := err.Error()
	var label string
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		label = fmt.Sprintf("%s (%s)", errors.CategoryOf(err), code)
		var bundleErr *errors.BundleError
		if stderrors.As(err, &bundleErr) {
			msg = bundleErr.Message
			if bundleErr.Wrapped != nil {
				msg += ": " + bundleErr.Wrapped.Error()
			}
		}
	} else {
		label = string(errors.CategoryInternal)
	}

	var b strings.Builder
	if p.Styled() {
		b.WriteString(p.errorStyle.Render("Error: " + msg))
		b.WriteString("\n")
		b.WriteString(p.codeStyle.Render(label))
	} else {
		b.WriteString("Error: " + msg + "\n" + label)
	}
	if output, ok := errors.GetErrorDetails(err)["output"].(string); ok && strings.TrimSpace(output) != "" {
		b.WriteString("\n\n")
		b.WriteString(strings.TrimRight(output, "\n"))
	}
	return b.String()
}

func (p *Printer) print(pp pterm.PrefixPrinter, label, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.Styled() {
		pp.Println(msg)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", label, msg)
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux renders CLI output for people at a terminal and for scripts.
//
// A Printer has two modes. ModeRich uses the lipgloss palette below, icons,
// and bordered tables. ModeMachine prints plain prefixed lines and
// tab-separated tables so the output stays parseable when piped. DetectMode
// picks rich only for a real terminal.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	ColorTealBright  = lipgloss.Color("#2CD7C7")
	ColorTealPrimary = lipgloss.Color("#20B9B4")
	ColorTealDeep    = lipgloss.Color("#16858E")
	ColorSlate       = lipgloss.Color("#2C4A54")

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles holds the shared text styles.
var Styles = struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Border  lipgloss.Style
	Cell    lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Header:  lipgloss.NewStyle().Bold(true).Foreground(ColorTealPrimary).Padding(0, 1),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorSlate),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
	Border:  lipgloss.NewStyle().Foreground(ColorTealDeep),
	Cell:    lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right),
}

// Icon is a status glyph.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
)

// Render returns the icon in its semantic color.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// Mode selects the output style.
type Mode int

const (
	// ModeMachine prints plain, parseable text.
	ModeMachine Mode = iota

	// ModeRich prints styled text for a terminal.
	ModeRich
)

// IsTerminal reports whether w is a terminal (including Cygwin/MSYS
// pseudo-terminals).
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DetectMode returns ModeRich when w is a terminal and NO_COLOR is unset.
func DetectMode(w io.Writer) Mode {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(w) {
		return ModeMachine
	}
	return ModeRich
}

// Printer writes status lines and tables.
type Printer struct {
	w    io.Writer
	mode Mode
}

// NewPrinter creates a Printer for w with the detected mode.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, mode: DetectMode(w)}
}

// NewPrinterMode creates a Printer with an explicit mode.
func NewPrinterMode(w io.Writer, mode Mode) *Printer {
	return &Printer{w: w, mode: mode}
}

// Mode returns the printer's mode.
func (p *Printer) Mode() Mode { return p.mode }

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

// Title prints a heading. Machine mode omits it.
func (p *Printer) Title(text string) {
	if p.mode == ModeMachine {
		return
	}
	fmt.Fprintln(p.w, Styles.Title.Render(text))
}

// Success prints a success line.
func (p *Printer) Success(text string) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.w, "OK: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Warning prints a warning line.
func (p *Printer) Warning(text string) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.w, "WARN: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
}

// Error prints an error line.
func (p *Printer) Error(text string) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.w, "ERROR: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", IconError.Render(), Styles.Error.Render(text))
}

// FileStatus prints one path with a status icon and optional reason.
func (p *Printer) FileStatus(path string, status Icon, reason string) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.w, "%s\t%s\t%s\n", status, path, reason)
		return
	}
	if reason != "" {
		fmt.Fprintf(p.w, "%s %s %s\n", status.Render(), path, Styles.Muted.Render("("+reason+")"))
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", status.Render(), path)
}

// Summary prints pass/fail totals.
func (p *Printer) Summary(passed, failed, total int) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.w, "SUMMARY: passed=%d failed=%d total=%d\n", passed, failed, total)
		return
	}
	fmt.Fprintf(p.w, "\n%s %s  %s %s  %s %s\n",
		Styles.Success.Render(fmt.Sprint(passed)), Styles.Muted.Render("passed"),
		Styles.Error.Render(fmt.Sprint(failed)), Styles.Muted.Render("failed"),
		Styles.Bold.Render(fmt.Sprint(total)), Styles.Muted.Render("total"),
	)
}

// KeyValues prints pairs in order as "key=value" lines (machine) or an
// aligned list (rich).
func (p *Printer) KeyValues(keys []string, values map[string]string) {
	if p.mode == ModeMachine {
		for _, k := range keys {
			fmt.Fprintf(p.w, "%s=%s\n", k, values[k])
		}
		return
	}
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	for _, k := range keys {
		fmt.Fprintf(p.w, "%s  %s\n", Styles.Bold.Render(k+strings.Repeat(" ", width-len(k))), values[k])
	}
}

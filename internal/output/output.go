// Package output prints styled, human-facing progress lines for ossemdoc.
//
// Functions use lipgloss for styling but hide the details from callers.
// Machine-oriented diagnostics go through the logger package instead.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
	out         io.Writer = os.Stdout
)

// SetVerbose enables or disables Verbose lines.
// The CLI calls this when --verbose is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetWriter redirects all output. Passing nil restores stdout.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Success prints a completed step in green.
//
// Example:
//
//	output.Success("Exported 42 entities")
func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("[+] "+msg))
}

// Error prints a failure that needs the user's attention.
func Error(msg string) {
	fmt.Fprintln(out, errorStyle.Render("[!] "+msg))
}

// Warn prints a recoverable problem, such as a skipped file.
func Warn(msg string) {
	fmt.Fprintln(out, warnStyle.Render("[!] "+msg))
}

// Info prints a phase header.
//
// Example:
//
//	output.Info("Parsing OSSEM from YAML")
func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("[*] "+msg))
}

// Step prints an indented sub-item in gray.
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render("  [>] "+msg))
}

// Verbose prints a debug line only when verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(out, stepStyle.Render("  [~] "+msg))
	}
}

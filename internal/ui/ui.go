// Package ui provides stderr-based output for the packager: ANSI-styled
// stage progress lines and the final artifact summary.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	blue   = "\033[34m"
	yellow = "\033[33m"
	green  = "\033[32m"
	red    = "\033[31m"
	cyan   = "\033[36m"
)

var summaryStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("6")).
	Padding(0, 2)

type Printer struct{}

func New() *Printer {
	return &Printer{}
}

func (p *Printer) Banner(tag string) {
	fmt.Fprintf(os.Stderr, bold+cyan+"◆ packaging "+reset+bold+"%s"+reset+"\n", tag)
}

func (p *Printer) StageStart(name string) {
	fmt.Fprintf(os.Stderr, blue+bold+"▶ %s"+reset+dim+" running..."+reset+"\n", name)
}

func (p *Printer) StageDone(name string) {
	fmt.Fprintf(os.Stderr, green+"✓ %s"+reset+"\n", name)
}

func (p *Printer) StageTolerated(name string, err error) {
	fmt.Fprintf(os.Stderr, yellow+bold+"⚠ %s"+reset+dim+" tolerated: %v"+reset+"\n", name, err)
}

func (p *Printer) StageFailed(name string, err error) {
	fmt.Fprintf(os.Stderr, red+bold+"✗ %s"+reset+" %v\n", name, err)
}

func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, yellow+"⚠ "+reset+format+"\n", args...)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, red+bold+"error: "+reset+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(os.Stderr, dim+"%s"+reset+"\n", msg)
}

// Artifact renders the final release summary: artifact path, size, and
// the tag-push command the operator runs to publish. Publishing is never
// automatic.
func (p *Printer) Artifact(path, size, pushCmd string) {
	body := fmt.Sprintf("artifact  %s\nsize      %s\npublish   %s", path, size, pushCmd)
	fmt.Fprintln(os.Stderr, summaryStyle.Render(body))
}

// Package report prints the console summary after charts are generated.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"bench-graphs/internal/charts"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	headline lipgloss.Style
	heading  lipgloss.Style
	index    lipgloss.Style
	file     lipgloss.Style
	detail   lipgloss.Style
}

// The renderer picks the colour profile from w, so a pipe or a buffer gets
// plain text.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		headline: r.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true),
		heading:  r.NewStyle().Bold(true),
		index:    r.NewStyle().Foreground(lipgloss.Color("#888888")),
		file:     r.NewStyle().Foreground(lipgloss.Color("#2E86AB")),
		detail:   r.NewStyle().Foreground(lipgloss.Color("#888888")).Faint(true),
	}
}

// Options controls optional parts of the summary.
type Options struct {
	// Verbose adds pixel size and file size after every file name.
	Verbose bool
}

// Print writes the success message followed by a numbered list of the
// generated files.
func Print(w io.Writer, dir string, results []charts.Result, opts Options) error {
	st := newStyles(w)

	var b strings.Builder
	b.WriteString(st.headline.Render(fmt.Sprintf("All graphs created successfully in '%s/' directory!", strings.TrimRight(dir, "/"))))
	b.WriteString("\n\n")
	b.WriteString(st.heading.Render("Generated files:"))
	b.WriteString("\n")
	for i, res := range results {
		b.WriteString(st.index.Render(fmt.Sprintf("%d.", i+1)))
		b.WriteString(" ")
		b.WriteString(st.file.Render(filepath.Base(res.Path)))
		if opts.Verbose {
			b.WriteString(" ")
			b.WriteString(st.detail.Render(fmt.Sprintf("(%dx%d, %s)", res.Stats.Width, res.Stats.Height, humanSize(res.Size))))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// PrintPublished reports how many charts reached the chat.
func PrintPublished(w io.Writer, sent, total int) error {
	st := newStyles(w)
	_, err := fmt.Fprintln(w, st.headline.Render(fmt.Sprintf("Published %d of %d charts to Telegram.", sent, total)))
	return err
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

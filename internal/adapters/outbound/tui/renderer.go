package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arclint/arclint/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// BindOutput sets the color profile of every style from w, so text bound
// for a pipe or a buffer carries no escape codes while a terminal still
// gets colors.
func BindOutput(w io.Writer) {
	lipgloss.SetColorProfile(lipgloss.NewRenderer(w).ColorProfile())
}

// RenderOptions controls optional report sections.
type RenderOptions struct {
	// Verbose adds the per-file status list.
	Verbose bool
}

// Render formats a finalized report for the terminal and returns the exit
// code the process should end with.
func Render(report *domain.Report, opts RenderOptions) (string, int) {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("arclint")
	subtitle := dimStyle.Render("Manifest Validation")
	target := report.Root
	if report.Commit != "" {
		target += "  " + faintStyle.Render(shortHash(report.Commit))
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + target))
	b.WriteString("\n\n")

	// ── Counts ──
	if !report.Aborted {
		fmt.Fprintf(&b, "  %s %d   %s %d   %s %d\n",
			titleStyle.Render("Files"), report.TotalFiles,
			passStyle.Render("Valid"), report.ValidFiles,
			failStyle.Render("Invalid"), report.InvalidFiles,
		)
		b.WriteString("\n")
	}

	if opts.Verbose && len(report.Files) > 0 {
		renderFiles(&b, report.Files)
		b.WriteString("\n")
	}

	// ── Findings ──
	if len(report.Findings) > 0 {
		b.WriteString("  " + titleStyle.Render("Findings") + "\n\n")
		for _, f := range report.Findings {
			renderFinding(&b, f)
		}
		b.WriteString("\n")
	}

	if len(report.Fixes) > 0 {
		renderFixes(&b, report.Fixes)
		b.WriteString("\n")
	}

	// ── Tally ──
	b.WriteString("  " + separatorLine + "\n\n")
	b.WriteString("  " + tally(report) + "\n")

	return b.String(), report.ExitCode()
}

// renderFinding writes "<SEVERITY> <location>: <ruleId> <message>".
func renderFinding(b *strings.Builder, f domain.Finding) {
	fmt.Fprintf(b, "  %s %s: %s %s",
		severityTag(f.Severity),
		fileStyle.Render(f.Location()),
		f.RuleID,
		f.Message,
	)
	if f.Line > 0 {
		b.WriteString(" " + faintStyle.Render(fmt.Sprintf("(line %d)", f.Line)))
	}
	b.WriteString("\n")
	for _, d := range f.Detail {
		fmt.Fprintf(b, "      %s\n", dimStyle.Render(d))
	}
}

func renderFiles(b *strings.Builder, files []domain.FileSummary) {
	for _, f := range files {
		icon := passStyle.Render("✓")
		if !f.Valid() {
			icon = failStyle.Render("✗")
		} else if f.Warnings > 0 {
			icon = warnStyle.Render("!")
		}

		var notes []string
		if f.Documents > 1 {
			notes = append(notes, fmt.Sprintf("%d documents", f.Documents))
		}
		if f.Errors > 0 {
			notes = append(notes, plural(f.Errors, "error"))
		}
		if f.Warnings > 0 {
			notes = append(notes, plural(f.Warnings, "warning"))
		}
		if f.Fixed {
			notes = append(notes, "fixed")
		}

		line := fmt.Sprintf("  %s %s", icon, f.Path)
		if len(notes) > 0 {
			line += "  " + faintStyle.Render(strings.Join(notes, ", "))
		}
		b.WriteString(line + "\n")
	}
}

func renderFixes(b *strings.Builder, fixes []domain.AppliedFix) {
	b.WriteString("  " + titleStyle.Render("Fixes") + "\n\n")
	for _, fx := range fixes {
		verb := passStyle.Render("fixed")
		if fx.DryRun {
			verb = warnStyle.Render("would fix")
		}
		fmt.Fprintf(b, "  %s %s: %s %s\n", verb, fileStyle.Render(fx.Path), fx.RuleID, dimStyle.Render(fx.Description))
	}
}

func tally(report *domain.Report) string {
	counts := fmt.Sprintf("%s, %s", plural(report.ErrorCount, "error"), plural(report.WarningCount, "warning"))
	switch {
	case report.Aborted:
		return errorTagStyle.Render("ABORTED") + "  " + dimStyle.Render(counts)
	case report.InvalidFiles > 0:
		return errorTagStyle.Render("FAILED") + "  " + dimStyle.Render(counts)
	default:
		return passStyle.Render("PASSED") + "  " + dimStyle.Render(counts)
	}
}

func severityTag(s domain.Severity) string {
	switch s {
	case domain.SeverityError:
		return errorTagStyle.Render(s.Label())
	case domain.SeverityWarning:
		return warnTagStyle.Render(s.Label())
	default:
		return infoTagStyle.Render(s.Label())
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

package tui

import (
	"fmt"
	"strings"

	"github.com/arclint/arclint/internal/domain"
)

// RenderHistory formats recorded validation runs, oldest first.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := shortHash(e.Commit)
		if hash == "" {
			hash = "·······"
		}

		status := passStyle.Render("PASS")
		if !e.Passed {
			status = failStyle.Render("FAIL")
		}

		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			status,
			fmt.Sprintf("%d files, %s, %s", e.TotalFiles, plural(e.Errors, "error"), plural(e.Warnings, "warning")),
		)

		if i > 0 {
			diff := e.Errors - entries[i-1].Errors
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

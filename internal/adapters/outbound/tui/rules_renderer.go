package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/camelcase"

	"github.com/arclint/arclint/internal/domain/rules"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// RenderRules renders the rule catalog as a table.
func RenderRules(infos []rules.Info) string {
	rows := make([][]string, 0, len(infos))
	for _, in := range infos {
		fix := ""
		if in.Fixable {
			fix = "yes"
		}
		rows = append(rows, []string{
			in.ID,
			in.Stage,
			string(in.Severity),
			humanizeKinds(in.Kinds),
			fix,
			in.Summary,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(faintStyle).
		Headers("RULE", "STAGE", "SEVERITY", "KINDS", "FIX", "SUMMARY").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	return t.Render() + "\n"
}

// humanizeKinds turns ["RunnerDeployment"] into "Runner Deployment".
func humanizeKinds(kinds []string) string {
	if len(kinds) == 0 {
		return "any"
	}
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, strings.Join(camelcase.Split(k), " "))
	}
	return strings.Join(names, ", ")
}

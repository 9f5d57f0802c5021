package style

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/kalekundert/sparekeys/pkg/plugins"
)

// PluginRow is one line of the plugin listing
type PluginRow struct {
	Enabled     bool
	Stage       plugins.Stage
	Name        string
	Description string
}

// TerminalRenderer renders pipeline output for the terminal
type TerminalRenderer struct{}

// NewTerminalRenderer creates a terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{}
}

// RenderFileList renders the files collected into the archive
func (r *TerminalRenderer) RenderFileList(files []string) string {
	if len(files) == 0 {
		return MutedStyle.Render("No files collected")
	}

	var result strings.Builder
	result.WriteString(TitleStyle.Render("Files to encrypt") + "\n")
	for _, file := range files {
		result.WriteString(Indent(PathStyle.Render(file), 1) + "\n")
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderPluginTable renders the registered plugins as a table, marking
// the enabled ones
func (r *TerminalRenderer) RenderPluginTable(rows []PluginRow) (string, error) {
	data := pterm.TableData{{"On", "Stage", "Name", "Description"}}
	for _, row := range rows {
		mark := ""
		if row.Enabled {
			mark = "*"
		}
		data = append(data, []string{mark, string(row.Stage), row.Name, row.Description})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// RenderOutcomes renders a per-stage summary of plugin outcomes
func (r *TerminalRenderer) RenderOutcomes(outcomes map[plugins.Stage][]plugins.Outcome) string {
	var result strings.Builder
	for _, stage := range plugins.Stages {
		for _, o := range outcomes[stage] {
			result.WriteString(r.renderOutcome(o) + "\n")
		}
	}
	return strings.TrimRight(result.String(), "\n")
}

func (r *TerminalRenderer) renderOutcome(o plugins.Outcome) string {
	label := fmt.Sprintf("%s.%s", o.Stage, o.Plugin)
	switch o.Kind {
	case plugins.OutcomeSuccess:
		return fmt.Sprintf("%s %s", SuccessStyle.Render("✓"), NormalStyle.Render(label))
	case plugins.OutcomeSkipped:
		return fmt.Sprintf("%s %s: %s", WarningStyle.Render("-"),
			NormalStyle.Render(label), MutedStyle.Render(o.Reason))
	case plugins.OutcomeConfigError:
		return fmt.Sprintf("%s %s: %s", ErrorStyle.Render("!"),
			NormalStyle.Render(label), MutedStyle.Render(o.Reason))
	default:
		return fmt.Sprintf("%s %s: %s", ErrorStyle.Render("✗"),
			NormalStyle.Render(label), MutedStyle.Render(o.Reason))
	}
}

// RenderError renders an error for the terminal
func (r *TerminalRenderer) RenderError(err error) string {
	return ErrorStyle.Render(fmt.Sprintf("Error: %v", err))
}

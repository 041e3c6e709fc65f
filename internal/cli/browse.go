package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/centerbox/pkg/box"
	"github.com/matzehuels/centerbox/pkg/pipeline"
)

// Browse styles
var (
	boxFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Foreground(colorWhite)
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var search searchFlags

	cmd := &cobra.Command{
		Use:   "browse <text...>",
		Short: "Page through the boxes of a text interactively",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := search.options(cmd, cfg)
			if err != nil {
				return err
			}
			opts.Logger = loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, cfg, search.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, "Searching...")
			spinner.Start()
			result, err := runner.Execute(ctx, strings.Join(args, " "), opts)
			spinner.Stop()
			if err != nil {
				return err
			}
			if result.Found == 0 {
				fmt.Fprintln(c.Out, "No valid boxes were found")
				return nil
			}

			p := tea.NewProgram(newBrowseModel(result), tea.WithContext(ctx), tea.WithInput(c.In), tea.WithOutput(c.Out))
			_, err = p.Run()
			return err
		},
	}

	search.register(cmd)
	return cmd
}

// =============================================================================
// browseModel - Interactive box viewer
// =============================================================================

// browseModel is the bubbletea model showing one box at a time.
type browseModel struct {
	result *pipeline.Result
	cursor int
}

func newBrowseModel(result *pipeline.Result) browseModel {
	return browseModel{result: result}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	last := len(m.result.Boxes) - 1
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h", "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l", "down", "j", " ":
		if m.cursor < last {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = last
	}
	return m, nil
}

func (m browseModel) View() string {
	b := m.result.Boxes[m.cursor]
	var sb strings.Builder

	title := fmt.Sprintf("Box %d/%d", m.cursor+1, len(m.result.Boxes))
	sb.WriteString(StyleTitle.Render(title))
	sb.WriteString("  ")
	sb.WriteString(statsLine(m.result.Found, len(m.result.Boxes), m.result.CacheHit))
	sb.WriteString("\n")
	sb.WriteString(listDimStyle.Render("←/→ navigate  g/G first/last  q quit"))
	sb.WriteString("\n\n")

	sb.WriteString(boxFrameStyle.Render(strings.Join(b.Texts(), "\n")))
	sb.WriteString("\n\n")
	sb.WriteString(metricsTable(b))
	sb.WriteString("\n")
	return sb.String()
}

// metricsTable renders the ranking scores of b.
func metricsTable(b box.Box) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Lines", "Spaces", "Dispersion").
		Row(
			fmt.Sprintf("%d", b.Len()),
			fmt.Sprintf("%.0f", box.SpaceCount(b)),
			fmt.Sprintf("%.2f", box.Dispersion(b)),
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return StyleNumber
		})
	return t.Render()
}

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/sitegen/internal/site"
	"github.com/gerunddev/sitegen/internal/styles"
)

var tableStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color(styles.Comment))

// StatusData holds everything the status display shows
type StatusData struct {
	ContentDir string
	PublicDir  string
	Pages      []site.PageStatus
}

// Counts tallies pages by state
func (d *StatusData) Counts() map[site.PageState]int {
	counts := make(map[site.PageState]int)
	for _, p := range d.Pages {
		counts[p.State]++
	}
	return counts
}

// Rows returns one table row per page, relative to the content and public dirs
func (d *StatusData) Rows() []table.Row {
	rows := make([]table.Row, 0, len(d.Pages))
	for _, p := range d.Pages {
		rows = append(rows, table.Row{
			relTo(d.ContentDir, p.Source),
			relTo(d.PublicDir, p.Output),
			p.State.String(),
		})
	}
	return rows
}

func relTo(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return rel
	}
	return path
}

type statusModel struct {
	data  *StatusData
	table table.Model
}

// InitStatusModel creates the interactive page status table
func InitStatusModel(data *StatusData) statusModel {
	columns := []table.Column{
		{Title: "Page", Width: 40},
		{Title: "Output", Width: 40},
		{Title: "Status", Width: 12},
	}

	height := len(data.Pages)
	if height > 15 {
		height = 15
	}
	if height < 1 {
		height = 1
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(data.Rows()),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Comment)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	return statusModel{data: data, table: t}
}

func (m statusModel) Init() tea.Cmd {
	return nil
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m statusModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("sitegen status"))
	b.WriteString("\n\n")
	b.WriteString(StatusHeader(m.data))
	b.WriteString("\n")
	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ navigate • q quit"))
	b.WriteString("\n")

	return b.String()
}

// StatusHeader summarizes the directories and per-state page counts
func StatusHeader(d *StatusData) string {
	counts := d.Counts()

	var b strings.Builder
	fmt.Fprintf(&b, "  Content: %s\n", styles.PathStyle.Render(d.ContentDir))
	fmt.Fprintf(&b, "  Public:  %s\n", styles.PathStyle.Render(d.PublicDir))
	fmt.Fprintf(&b, "  %s, %s, %s, %s, %s\n",
		styles.SuccessStyle.Render(fmt.Sprintf("%d new", counts[site.PageNew])),
		styles.WarningStyle.Render(fmt.Sprintf("%d changed", counts[site.PageChanged])),
		styles.DimStyle.Render(fmt.Sprintf("%d unchanged", counts[site.PageUnchanged])),
		styles.DimStyle.Render(fmt.Sprintf("%d draft", counts[site.PageDraft])),
		styles.DimStyle.Render(fmt.Sprintf("%d excluded", counts[site.PageExcluded])))
	return b.String()
}

// StatusLines renders the page list without a table, for non-terminal output
func StatusLines(d *StatusData) string {
	var b strings.Builder
	b.WriteString(StatusHeader(d))
	for _, row := range d.Rows() {
		fmt.Fprintf(&b, "%-10s %s\n", row[2], row[0])
	}
	return b.String()
}

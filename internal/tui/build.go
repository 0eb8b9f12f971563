package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/sitegen/internal/site"
	"github.com/gerunddev/sitegen/internal/styles"
)

// maxListedErrors caps how many page errors the summary prints
const maxListedErrors = 10

// buildModel is the Bubble Tea model for the build progress display
type buildModel struct {
	spinner  spinner.Model
	status   string
	complete bool
	result   *site.BuildResult
	err      error
}

// BuildMsg is sent when the build completes
type BuildMsg struct {
	Result *site.BuildResult
	Err    error
}

// InitBuildModel creates a new build progress model
func InitBuildModel(status string) buildModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return buildModel{
		spinner: s,
		status:  status,
	}
}

func (m buildModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case BuildMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m buildModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}
	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Build failed: "+m.err.Error()) + "\n"
	}
	return Summary(m.result)
}

// Summary formats a finished build for the terminal
func Summary(r *site.BuildResult) string {
	elapsed := styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", r.EndTime.Sub(r.StartTime).Round(time.Millisecond)))

	if len(r.Generated) == 0 && len(r.Errors) == 0 {
		msg := styles.SuccessStyle.Render("✓ Site is up to date")
		if len(r.Drafts) > 0 {
			msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d draft(s) skipped", len(r.Drafts)))
		}
		return msg + "\n" + elapsed + "\n"
	}

	msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ Generated %d page(s)", len(r.Generated)))
	if len(r.Skipped) > 0 {
		msg += ", " + styles.DimStyle.Render(fmt.Sprintf("%d unchanged", len(r.Skipped)))
	}
	if len(r.Drafts) > 0 {
		msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d draft(s) skipped", len(r.Drafts)))
	}
	if len(r.Errors) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(r.Errors)))
	}
	msg += "\n"

	for i, pageErr := range r.Errors {
		if i == maxListedErrors {
			msg += styles.DimStyle.Render(fmt.Sprintf("  ... and %d more", len(r.Errors)-maxListedErrors)) + "\n"
			break
		}
		msg += "  " + styles.ErrorStyle.Render("✗ ") + styles.PathStyle.Render(pageErr.Source) +
			": " + pageErr.Err.Error() + "\n"
	}

	return msg + elapsed + "\n"
}

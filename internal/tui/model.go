package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fontex/internal/domain"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseCopying
	PhaseDone
	PhaseError
)

// Messages for the TUI
type (
	ScanProgressMsg struct {
		Found int
	}
	ScanDoneMsg struct {
		Found   int
		Matched int
	}
	CopyProgressMsg struct {
		Current int
		Total   int
		File    string
		Outcome domain.CopyOutcome
	}
	DoneMsg struct {
		Summary domain.OperationSummary
	}
	ErrorMsg struct {
		Err error
	}
	tickMsg time.Time
)

// Config for the TUI. Start runs the extraction; it must block until the
// run is over and return a DoneMsg or ErrorMsg. Progress is delivered
// separately through Program.Send.
type Config struct {
	SourceDir string
	TargetDir string
	DryRun    bool
	Start     tea.Cmd
	// Cancel is called when the user quits before the run has finished.
	Cancel func()
}

// Model is the main TUI model
type Model struct {
	config       Config
	Phase        Phase
	Summary      domain.OperationSummary
	spinner      spinner.Model
	progress     progress.Model
	found        int
	copyProgress int
	copyTotal    int
	failures     int
	currentFile  string
	Err          error
	Quitting     bool
	width        int
}

func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseScanning,
		spinner:  s,
		progress: p,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.config.Start != nil {
		cmds = append(cmds, m.config.Start)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.Phase == PhaseScanning || m.Phase == PhaseCopying {
				if m.config.Cancel != nil {
					m.config.Cancel()
				}
			}
			m.Quitting = true
			return m, tea.Quit
		case "enter":
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case ScanProgressMsg:
		m.found = msg.Found
		return m, nil

	case ScanDoneMsg:
		m.found = msg.Found
		if msg.Matched > 0 {
			m.Phase = PhaseCopying
			m.copyTotal = msg.Matched
			return m, tickCmd()
		}
		return m, nil

	case CopyProgressMsg:
		m.copyProgress = msg.Current
		m.copyTotal = msg.Total
		m.currentFile = msg.File
		if msg.Outcome.Status == domain.CopyFailed {
			m.failures++
		}
		return m, nil

	case DoneMsg:
		m.Phase = PhaseDone
		m.Summary = msg.Summary
		return m, nil

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseCopying {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseCopying {
			var cmds []tea.Cmd
			if m.copyTotal > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.copyProgress)/float64(m.copyTotal)))
			}
			cmds = append(cmds, tickCmd())
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(m.renderScanning())
	case PhaseCopying:
		b.WriteString(m.renderCopying())
	case PhaseDone:
		b.WriteString(m.renderDone())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(iconFont + " fontex")
	subtitle := subtitleStyle.Render("Extract installed Creative Cloud fonts")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(m.config.SourceDir))),
		dimStyle.Render(fmt.Sprintf("%s Target: %s", iconFolder, shortenPath(m.config.TargetDir))),
	)
}

func (m Model) renderScanning() string {
	if m.found == 0 {
		return fmt.Sprintf("%s Searching fonts...", m.spinner.View())
	}
	return fmt.Sprintf("%s Searching fonts... %s", m.spinner.View(), countStyle.Render(fmt.Sprintf("%d found", m.found)))
}

func (m Model) renderCopying() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Copying Fonts"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.copyTotal > 0 {
		percent = float64(m.copyProgress) / float64(m.copyTotal)
	}

	b.WriteString(fmt.Sprintf("  %s Copying %d of %d matched fonts (%d found)\n\n", m.spinner.View(), m.copyProgress, m.copyTotal, m.found))
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d fonts", m.copyProgress, m.copyTotal)),
		dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))
	if m.failures > 0 {
		b.WriteString(fmt.Sprintf("  %s\n", errorStyle.Render(fmt.Sprintf("%s %d failed", iconError, m.failures))))
	}

	if m.currentFile != "" {
		b.WriteString(fmt.Sprintf("\n  %s %s\n", iconArrow, fileNameStyle.Render(m.currentFile)))
	}

	return b.String()
}

func (m Model) renderDone() string {
	var b strings.Builder
	s := m.Summary

	b.WriteString(sectionStyle.Render("Summary"))
	b.WriteString("\n\n")

	switch s.Kind {
	case domain.SummaryNothingFound:
		b.WriteString(warningStyle.Render(fmt.Sprintf("  %s No fonts found in the source directory", iconOverride)))
		b.WriteString("\n")
		return b.String()
	case domain.SummaryNothingMatched:
		b.WriteString(warningStyle.Render(fmt.Sprintf("  %s No fonts matched %q (%d fonts total)", iconOverride, s.Pattern, s.Found)))
		b.WriteString("\n")
		return b.String()
	}

	if s.ExitCode() == domain.ExitSuccess {
		b.WriteString(fmt.Sprintf("  %s %s\n\n", successStyle.Render(iconSuccess), successStyle.Render("Extraction finished")))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s\n\n", errorStyle.Render(iconError), errorStyle.Render("No font could be copied")))
	}

	b.WriteString(stat("Found:", statValueStyle.Render(fmt.Sprintf("%d fonts", s.Found))))
	b.WriteString(stat("Matched:", statValueStyle.Render(fmt.Sprintf("%d fonts", s.Filtered))))
	b.WriteString(stat("Copied:", successStyle.Render(fmt.Sprintf("%s %d", iconSuccess, s.Succeeded))))
	if s.Overridden > 0 {
		b.WriteString(stat("Overwritten:", warningStyle.Render(fmt.Sprintf("%s %d", iconOverride, s.Overridden))))
	}
	b.WriteString(stat("Skipped:", dimStyle.Render(fmt.Sprintf("%s %d", iconSkipped, s.Skipped))))
	if s.Failed > 0 {
		b.WriteString(stat("Failed:", errorStyle.Render(fmt.Sprintf("%s %d", iconError, s.Failed))))
	}
	b.WriteString(stat("Took:", dimStyle.Render(s.Duration.Round(time.Millisecond).String())))

	if m.config.DryRun {
		b.WriteString("\n")
		b.WriteString(highlightBoxStyle.Render("🔍 Dry Run - No files were copied"))
	}

	return b.String()
}

func stat(label, value string) string {
	return fmt.Sprintf("  %s  %s\n", statLabelStyle.Render(label), value)
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))

	return highlightBoxStyle.
		BorderForeground(bad).
		Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseScanning, PhaseCopying:
		help = "Press q to cancel"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

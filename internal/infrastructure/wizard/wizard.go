package wizard

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/covfix/covfix/internal/application"
)

type (
	wizardState int

	initWizardModel struct {
		state     wizardState
		precision int
		html      bool
		xml       bool
		results   bool
		cursor    int
		confirmed bool
		aborted   bool
		base      application.Config
	}
)

const (
	stateIntro wizardState = iota
	stateEdit
	stateConfirm
)

// Defaults filled in when an artifact is toggled on.
const (
	defaultHTMLDir    = "htmlcov"
	defaultXMLPath    = "coverage.xml"
	defaultResultsDir = "results"
)

func Run(cfg application.Config, stdout io.Writer, stdin io.Reader) (application.Config, bool, error) {
	model := newInitWizardModel(cfg)
	program := tea.NewProgram(model, tea.WithInput(stdin), tea.WithOutput(stdout))
	res, err := program.Run()
	if err != nil {
		return cfg, false, err
	}
	finalModel, ok := res.(*initWizardModel)
	if !ok {
		return cfg, false, fmt.Errorf("unexpected wizard state")
	}
	if finalModel.aborted || !finalModel.confirmed {
		return cfg, false, nil
	}
	return finalModel.toConfig(), true, nil
}

func newInitWizardModel(cfg application.Config) *initWizardModel {
	precision := cfg.Report.Precision
	if precision <= 0 {
		precision = application.DefaultConfig().Report.Precision
	}
	return &initWizardModel{
		state:     stateIntro,
		precision: precision,
		html:      cfg.Report.HTMLDir != "",
		xml:       cfg.Report.XMLPath != "",
		results:   cfg.ResultsDir != "",
		base:      cfg,
	}
}

func (m *initWizardModel) Init() tea.Cmd {
	return nil
}

func (m *initWizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			switch m.state {
			case stateIntro:
				m.state = stateEdit
			case stateEdit:
				m.state = stateConfirm
			case stateConfirm:
				m.confirmed = true
				return m, tea.Quit
			}
		case "esc":
			if m.state == stateConfirm {
				m.state = stateEdit
			}
		case "up":
			if m.state == stateEdit {
				m.moveCursor(-1)
			}
		case "down":
			if m.state == stateEdit {
				m.moveCursor(1)
			}
		case "left", "right", " ", "-", "+":
			if m.state == stateEdit {
				m.toggleSelection(msg.String())
			}
		}
	}
	return m, nil
}

func (m *initWizardModel) View() string {
	switch m.state {
	case stateIntro:
		return m.viewIntro()
	case stateEdit:
		return m.viewEdit()
	case stateConfirm:
		return m.viewConfirm()
	default:
		return ""
	}
}

func (m *initWizardModel) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > 3 {
		m.cursor = 3
	}
}

func (m *initWizardModel) toggleSelection(key string) {
	switch m.cursor {
	case 0:
		delta := 1
		if key == "left" || key == "-" {
			delta = -1
		}
		m.precision += delta
		if m.precision < 0 {
			m.precision = 0
		}
		if m.precision > 6 {
			m.precision = 6
		}
	case 1:
		m.html = !m.html
	case 2:
		m.xml = !m.xml
	case 3:
		m.results = !m.results
	}
}

func (m *initWizardModel) viewIntro() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\ncovfix init wizard\n\n")
	fmt.Fprintf(&b, "The wizard configures which artifacts session finalization produces.\n\n")
	fmt.Fprintf(&b, "Press Enter to continue, or Ctrl+C to cancel.\n")
	return b.String()
}

func (m *initWizardModel) viewEdit() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nReview report settings\n\n")
	fmt.Fprintf(&b, "Use ↑/↓ to move, ←/→ or space to change values.\n\n")
	rows := []struct {
		label string
		value string
	}{
		{"Report precision", fmt.Sprintf("%d decimals", m.precision)},
		{"HTML report", onOff(m.html, defaultHTMLDir)},
		{"Cobertura XML", onOff(m.xml, defaultXMLPath)},
		{"Results directory", onOff(m.results, defaultResultsDir)},
	}
	for idx, row := range rows {
		prefix := "  "
		if m.cursor == idx {
			prefix = "> "
		}
		fmt.Fprintf(&b, "%s%s: %s\n", prefix, row.label, row.value)
	}
	fmt.Fprintf(&b, "\nEnter to continue, q to cancel.\n")
	return b.String()
}

func (m *initWizardModel) viewConfirm() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nReady to write configuration\n\n")
	fmt.Fprintf(&b, "Report precision: %d decimals\n", m.precision)
	fmt.Fprintf(&b, "HTML report: %s\n", onOff(m.html, defaultHTMLDir))
	fmt.Fprintf(&b, "Cobertura XML: %s\n", onOff(m.xml, defaultXMLPath))
	fmt.Fprintf(&b, "Results directory: %s\n", onOff(m.results, defaultResultsDir))
	fmt.Fprintf(&b, "\nPress Enter to save, Esc to go back, q to cancel.\n")
	return b.String()
}

func onOff(enabled bool, target string) string {
	if enabled {
		return target
	}
	return "off"
}

func (m *initWizardModel) toConfig() application.Config {
	cfg := m.base
	cfg.Report.Precision = m.precision

	cfg.Report.HTMLDir = pick(m.html, cfg.Report.HTMLDir, defaultHTMLDir)
	cfg.Report.XMLPath = pick(m.xml, cfg.Report.XMLPath, defaultXMLPath)
	cfg.ResultsDir = pick(m.results, cfg.ResultsDir, defaultResultsDir)
	return cfg
}

func pick(enabled bool, current, fallback string) string {
	if !enabled {
		return ""
	}
	if current != "" {
		return current
	}
	return fallback
}

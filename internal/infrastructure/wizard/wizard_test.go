package wizard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/covfix/covfix/internal/application"
)

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWizardDefaults(t *testing.T) {
	model := newInitWizardModel(application.DefaultConfig())
	if model.precision != 3 {
		t.Fatalf("expected default precision 3, got %d", model.precision)
	}
	if model.html || model.xml || model.results {
		t.Fatalf("artifacts must start off")
	}
}

func TestWizardTogglesAndConfirms(t *testing.T) {
	model := newInitWizardModel(application.DefaultConfig())

	// Intro -> edit
	model.Update(key("enter"))
	if model.state != stateEdit {
		t.Fatalf("expected edit state")
	}

	// Move to HTML toggle and flip it on.
	model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !model.html {
		t.Fatalf("expected html toggled on")
	}

	// Edit -> confirm -> done
	model.Update(key("enter"))
	if model.state != stateConfirm {
		t.Fatalf("expected confirm state")
	}
	model.Update(key("enter"))
	if !model.confirmed {
		t.Fatalf("expected confirmation")
	}

	cfg := model.toConfig()
	if cfg.Report.HTMLDir != defaultHTMLDir {
		t.Fatalf("expected default html dir filled in, got %q", cfg.Report.HTMLDir)
	}
	if cfg.Report.XMLPath != "" || cfg.ResultsDir != "" {
		t.Fatalf("untouched artifacts must stay off: %+v", cfg)
	}
}

func TestWizardPrecisionBounds(t *testing.T) {
	model := newInitWizardModel(application.DefaultConfig())
	model.state = stateEdit

	for range 10 {
		model.toggleSelection("right")
	}
	if model.precision != 6 {
		t.Fatalf("precision must cap at 6, got %d", model.precision)
	}
	for range 10 {
		model.toggleSelection("left")
	}
	if model.precision != 0 {
		t.Fatalf("precision must floor at 0, got %d", model.precision)
	}
}

func TestWizardAbort(t *testing.T) {
	model := newInitWizardModel(application.DefaultConfig())
	model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !model.aborted {
		t.Fatalf("expected abort on ctrl+c")
	}
}

func TestWizardKeepsExistingValues(t *testing.T) {
	cfg := application.DefaultConfig()
	cfg.Report.HTMLDir = "custom-html"
	model := newInitWizardModel(cfg)
	if !model.html {
		t.Fatalf("existing html dir must start the toggle on")
	}

	out := model.toConfig()
	if out.Report.HTMLDir != "custom-html" {
		t.Fatalf("existing value must survive, got %q", out.Report.HTMLDir)
	}
}

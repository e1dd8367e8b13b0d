package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/covfix/covfix/internal/application"
	"github.com/covfix/covfix/internal/domain"
)

type Writer struct{}

func (Writer) Write(w io.Writer, summary domain.Summary, format application.OutputFormat) error {
	switch format {
	case application.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case application.OutputHTML:
		return writeHTML(w, summary)
	case application.OutputXML:
		return writeCobertura(w, summary)
	case application.OutputText, "":
		return writeText(w, summary)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeText(w io.Writer, summary domain.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "File\tStmts\tMiss\tCover")

	colorize := colorEnabled(w)
	fullStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A")).Bold(true)
	zeroStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)

	for _, f := range summary.Files {
		cover := fmt.Sprintf("%.*f%%", summary.Precision, f.Percent)
		if colorize {
			switch {
			case f.Total > 0 && f.Covered == f.Total:
				cover = fullStyle.Render(cover)
			case f.Covered == 0:
				cover = zeroStyle.Render(cover)
			}
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", f.File, f.Total, f.Total-f.Covered, cover)
	}
	_, _ = fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%.*f%%\n",
		summary.Total, summary.Total-summary.Covered, summary.Precision, summary.Percent)
	return tw.Flush()
}

func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

package report

import (
	"html/template"
	"io"
	"time"

	"github.com/covfix/covfix/internal/domain"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Coverage Report</title>
    <style>
        :root {
            --full: #16A34A;
            --partial: #CA8A04;
            --zero: #DC2626;
            --bg: #0f172a;
            --card: #1e293b;
            --text: #f8fafc;
            --muted: #94a3b8;
            --border: #334155;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.6;
            padding: 2rem;
        }
        .container { max-width: 1200px; margin: 0 auto; }
        h1 {
            font-size: 2rem;
            margin-bottom: 0.5rem;
            font-weight: 600;
        }
        .timestamp {
            color: var(--muted);
            font-size: 0.875rem;
            margin-bottom: 2rem;
        }
        .summary {
            display: flex;
            gap: 1rem;
            margin-bottom: 2rem;
        }
        .summary-card {
            background: var(--card);
            border-radius: 0.5rem;
            padding: 1rem 1.5rem;
            border: 1px solid var(--border);
        }
        .summary-label {
            font-size: 0.75rem;
            text-transform: uppercase;
            color: var(--muted);
            letter-spacing: 0.05em;
        }
        .summary-value {
            font-size: 1.5rem;
            font-weight: 600;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            background: var(--card);
            border-radius: 0.5rem;
            overflow: hidden;
        }
        th, td {
            padding: 0.75rem 1rem;
            text-align: left;
            border-bottom: 1px solid var(--border);
        }
        th {
            background: rgba(0,0,0,0.2);
            font-weight: 600;
            font-size: 0.75rem;
            text-transform: uppercase;
            letter-spacing: 0.05em;
            color: var(--muted);
        }
        tr:last-child td { border-bottom: none; }
        tr:hover { background: rgba(255,255,255,0.02); }
        .progress-bar {
            width: 100%;
            height: 6px;
            background: var(--border);
            border-radius: 3px;
            overflow: hidden;
        }
        .progress-fill {
            height: 100%;
            border-radius: 3px;
        }
        .progress-fill.full { background: var(--full); }
        .progress-fill.partial { background: var(--partial); }
        .progress-fill.zero { background: var(--zero); }
        .coverage-cell {
            display: flex;
            align-items: center;
            gap: 0.75rem;
        }
        .coverage-percent {
            min-width: 4rem;
            font-weight: 500;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Coverage Report</h1>
        <p class="timestamp">Generated {{.Timestamp}}</p>

        <div class="summary">
            <div class="summary-card">
                <div class="summary-label">Overall</div>
                <div class="summary-value">{{printf "%.1f" .Percent}}%</div>
            </div>
            <div class="summary-card">
                <div class="summary-label">Files</div>
                <div class="summary-value">{{len .Files}}</div>
            </div>
            <div class="summary-card">
                <div class="summary-label">Statements</div>
                <div class="summary-value">{{.Total}}</div>
            </div>
        </div>

        {{if .Files}}
        <table>
            <thead>
                <tr>
                    <th>File</th>
                    <th>Statements</th>
                    <th>Missed</th>
                    <th>Coverage</th>
                </tr>
            </thead>
            <tbody>
                {{range .Files}}
                <tr>
                    <td>{{.File}}</td>
                    <td>{{.Total}}</td>
                    <td>{{sub .Total .Covered}}</td>
                    <td>
                        <div class="coverage-cell">
                            <span class="coverage-percent">{{printf "%.1f" .Percent}}%</span>
                            <div class="progress-bar">
                                <div class="progress-fill {{fillClass .}}"
                                     style="width: {{if gt .Percent 100.0}}100{{else}}{{printf "%.0f" .Percent}}{{end}}%"></div>
                            </div>
                        </div>
                    </td>
                </tr>
                {{end}}
            </tbody>
        </table>
        {{end}}
    </div>
</body>
</html>`

type htmlData struct {
	domain.Summary
	Timestamp string
}

func writeHTML(w io.Writer, summary domain.Summary) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"sub": func(a, b int) int { return a - b },
		"fillClass": func(f domain.FileCoverage) string {
			switch {
			case f.Total > 0 && f.Covered == f.Total:
				return "full"
			case f.Covered == 0:
				return "zero"
			default:
				return "partial"
			}
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return err
	}
	data := htmlData{
		Summary:   summary,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	}
	return tmpl.Execute(w, data)
}

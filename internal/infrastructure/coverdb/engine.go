package coverdb

import (
	"path/filepath"

	"github.com/covfix/covfix/internal/application"
	"github.com/covfix/covfix/internal/domain"
	"github.com/covfix/covfix/internal/infrastructure/excludes"
)

// Engine adapts the database operations to the application ports.
type Engine struct{}

// Rewrite implements application.Engine.
func (Engine) Rewrite(originDir, newDir, dbPath string) error {
	return Rewrite(originDir, newDir, dbPath)
}

// Summarize loads a database, applies exclusion markers and omit
// patterns, and reduces the result to a report summary.
func (Engine) Summarize(dbPath string, opts application.SummarizeOptions) (domain.Summary, error) {
	db, err := Load(dbPath)
	if err != nil {
		return domain.Summary{}, err
	}

	marks, err := excludes.New(opts.Excludes)
	if err != nil {
		return domain.Summary{}, err
	}
	if !marks.Empty() {
		pruneExcluded(db, marks, opts.SourceRoot)
	}

	stats := db.Stats()
	for file := range stats {
		if omitted(file, opts.Omit) {
			delete(stats, file)
		}
	}
	return domain.Summarize(stats, opts.Precision), nil
}

// pruneExcluded drops blocks whose starting source line carries an
// exclusion marker. Relative identifiers resolve against root.
func pruneExcluded(db *Database, marks *excludes.Engine, root string) {
	for file, blocks := range db.Blocks {
		excludedLines := marks.ExcludedLines(resolveSource(file, root))
		if len(excludedLines) == 0 {
			continue
		}
		kept := blocks[:0]
		for _, blk := range blocks {
			if !excludedLines[blk.StartLine] {
				kept = append(kept, blk)
			}
		}
		db.Blocks[file] = kept
	}
}

func resolveSource(file, root string) string {
	if filepath.IsAbs(file) || root == "" {
		return file
	}
	return filepath.Join(root, filepath.FromSlash(file))
}

func omitted(file string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, file); ok {
			return true
		}
	}
	return false
}

// Ensure Engine satisfies the application port.
var _ application.Engine = Engine{}

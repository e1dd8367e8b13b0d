package domain

import (
	"math"
	"sort"
)

// Stat aggregates executed and total statement counts for one file.
type Stat struct {
	Covered int
	Total   int
}

// Percent returns the covered percentage, zero when the file has no
// statements.
func (s Stat) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Covered) / float64(s.Total) * 100
}

// FileCoverage is one row of a coverage report.
type FileCoverage struct {
	File    string  `json:"file"`
	Covered int     `json:"covered"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// Summary is the report model produced at session finish: per-file rows
// plus overall totals.
type Summary struct {
	Files   []FileCoverage `json:"files"`
	Covered int            `json:"covered"`
	Total   int            `json:"total"`
	Percent float64        `json:"percent"`
	// Precision is the number of decimals percentages were rounded to;
	// renderers format with it.
	Precision int `json:"-"`
}

// Summarize builds a Summary from per-file stats, with files sorted by
// identifier and percentages rounded to the given number of decimals.
func Summarize(files map[string]Stat, precision int) Summary {
	if precision < 0 {
		precision = 0
	}
	summary := Summary{Files: make([]FileCoverage, 0, len(files)), Precision: precision}
	for file, stat := range files {
		summary.Files = append(summary.Files, FileCoverage{
			File:    file,
			Covered: stat.Covered,
			Total:   stat.Total,
			Percent: roundTo(stat.Percent(), precision),
		})
		summary.Covered += stat.Covered
		summary.Total += stat.Total
	}
	sort.Slice(summary.Files, func(i, j int) bool {
		return summary.Files[i].File < summary.Files[j].File
	})
	summary.Percent = roundTo(Stat{Covered: summary.Covered, Total: summary.Total}.Percent(), precision)
	return summary
}

func roundTo(v float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	shift := math.Pow(10, float64(decimals))
	return math.Round(v*shift) / shift
}

package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/covfix/covfix/internal/domain"
)

// Cobertura XML is the interchange format most CI systems ingest; the
// writer emits file-level line rates grouped by directory.

type coberturaCoverage struct {
	XMLName      xml.Name       `xml:"coverage"`
	LineRate     string         `xml:"line-rate,attr"`
	LinesCovered int            `xml:"lines-covered,attr"`
	LinesValid   int            `xml:"lines-valid,attr"`
	Timestamp    int64          `xml:"timestamp,attr"`
	Version      string         `xml:"version,attr"`
	Sources      []string       `xml:"sources>source"`
	Packages     []coberturaPkg `xml:"packages>package"`
}

type coberturaPkg struct {
	Name     string           `xml:"name,attr"`
	LineRate string           `xml:"line-rate,attr"`
	Classes  []coberturaClass `xml:"classes>class"`
}

type coberturaClass struct {
	Name     string `xml:"name,attr"`
	Filename string `xml:"filename,attr"`
	LineRate string `xml:"line-rate,attr"`
}

func writeCobertura(w io.Writer, summary domain.Summary) error {
	packages := make(map[string]*coberturaPkg)
	order := make([]string, 0)
	totals := make(map[string]domain.Stat)

	for _, f := range summary.Files {
		pkgName := path.Dir(f.File)
		pkg, ok := packages[pkgName]
		if !ok {
			pkg = &coberturaPkg{Name: pkgName}
			packages[pkgName] = pkg
			order = append(order, pkgName)
		}
		pkg.Classes = append(pkg.Classes, coberturaClass{
			Name:     path.Base(f.File),
			Filename: f.File,
			LineRate: lineRate(f.Covered, f.Total),
		})
		agg := totals[pkgName]
		agg.Covered += f.Covered
		agg.Total += f.Total
		totals[pkgName] = agg
	}

	doc := coberturaCoverage{
		LineRate:     lineRate(summary.Covered, summary.Total),
		LinesCovered: summary.Covered,
		LinesValid:   summary.Total,
		Timestamp:    time.Now().Unix(),
		Version:      "covfix",
		Sources:      []string{"."},
	}
	for _, name := range order {
		pkg := packages[name]
		agg := totals[name]
		pkg.LineRate = lineRate(agg.Covered, agg.Total)
		doc.Packages = append(doc.Packages, *pkg)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func lineRate(covered, total int) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%.4f", float64(covered)/float64(total))
}

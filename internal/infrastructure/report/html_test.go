package report

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covfix/covfix/internal/domain"
)

func TestWriteHTMLFillClasses(t *testing.T) {
	var buf bytes.Buffer
	err := writeHTML(&buf, sampleSummary())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `class="progress-fill full"`)
	assert.Contains(t, out, `class="progress-fill zero"`)
	assert.Contains(t, out, `class="progress-fill partial"`)
}

func TestWriteHTMLEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	err := writeHTML(&buf, domain.Summary{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Coverage Report")
	assert.NotContains(t, out, "<table>")
}

func TestWriteCoberturaStructure(t *testing.T) {
	var buf bytes.Buffer
	err := writeCobertura(&buf, sampleSummary())
	require.NoError(t, err)

	var doc struct {
		LineRate string `xml:"line-rate,attr"`
		Packages []struct {
			Name     string `xml:"name,attr"`
			LineRate string `xml:"line-rate,attr"`
			Classes  []struct {
				Name     string `xml:"name,attr"`
				Filename string `xml:"filename,attr"`
			} `xml:"classes>class"`
		} `xml:"packages>package"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "0.6250", doc.LineRate)
	require.Len(t, doc.Packages, 3)
	assert.Equal(t, "pkg/fs", doc.Packages[0].Name)
	require.Len(t, doc.Packages[0].Classes, 1)
	assert.Equal(t, "rm.py", doc.Packages[0].Classes[0].Name)
	assert.Equal(t, "pkg/fs/rm.py", doc.Packages[0].Classes[0].Filename)
	assert.Equal(t, "1.0000", doc.Packages[0].LineRate)
}

func TestLineRateZeroTotal(t *testing.T) {
	assert.Equal(t, "0", lineRate(0, 0))
	assert.Equal(t, "0.5000", lineRate(1, 2))
}

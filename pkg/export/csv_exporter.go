package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes, preceded by the same
// institutional header block the PDF report carries.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes: header block, blank line, table.
func (e *CSVExporter) Render(data Dataset, header ReportHeader) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	generated := header.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	preamble := [][]string{}
	if header.SchoolName != "" {
		preamble = append(preamble, []string{header.SchoolName})
	}
	if header.AppName != "" {
		preamble = append(preamble, []string{header.AppName})
	}
	preamble = append(preamble, []string{fmt.Sprintf("Reporte de Incidencias - Generado: %s", generated.Format("02/01/2006"))})
	if header.FilterLine != "" {
		preamble = append(preamble, []string{header.FilterLine})
	}
	preamble = append(preamble, []string{""})
	for _, line := range preamble {
		if err := writer.Write(line); err != nil {
			return nil, fmt.Errorf("write csv header block: %w", err)
		}
	}

	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

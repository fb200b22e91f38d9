package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
)

// extractTXT decodes the input as UTF-8 text.
func extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: txt content is not valid UTF-8", ErrExtraction)
	}
	return string(data), nil
}

// extractCSV renders the tabular data as an aligned plain-text table, rows
// and columns preserved. The whole table stays one text; splitting into
// retrievable units happens downstream in the chunker.
func extractCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: parsing csv: %v", ErrExtraction, err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("%w: csv file is empty", ErrExtraction)
	}

	return renderTable(records[0], records[1:]), nil
}

// renderTable formats a header plus rows as readable text, one source row
// per output line.
func renderTable(header []string, rows [][]string) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetHeaderLine(false)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()

	return strings.TrimRight(buf.String(), "\n")
}

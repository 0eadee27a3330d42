// Package interchange converts collections to and from CSV and JSON.
package interchange

import (
	"encoding/csv"
	"regexp"
	"strings"

	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/okian/agentdesk/internal/domain/normalize"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// ToCSV renders rows with a plain header line followed by one line per
// record where every cell is quoted. The header is the union of field names
// in first-seen order. No rows yields "".
func ToCSV[T model.Record](rows []T) string {
	if len(rows) == 0 {
		return ""
	}

	var headers []string
	index := make(map[string]int)
	records := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		values := make(map[string]string)
		for _, f := range r.Fields() {
			if _, ok := index[f.Name]; !ok {
				index[f.Name] = len(headers)
				headers = append(headers, f.Name)
			}
			values[f.Name] = f.Value
		}
		records = append(records, values)
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	for _, values := range records {
		b.WriteByte('\n')
		for i, h := range headers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(values[h]))
		}
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FromCSV parses text into one row per non-blank line after the header.
// Lines are split independently, so quoted values cannot span lines. Cells
// are not type-coerced; a short line simply lacks the trailing keys.
func FromCSV(text string) []normalize.Row {
	lines := lineBreak.Split(strings.TrimSpace(text), -1)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil
	}

	headers := splitLine(lines[0])
	rows := make([]normalize.Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := splitLine(line)
		row := make(normalize.Row, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// splitLine splits one line on commas outside quotes and unquotes each cell.
func splitLine(line string) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	if cells, err := r.Read(); err == nil {
		return cells
	}

	// Fall back to a bare comma split for lines the reader rejects.
	parts := strings.Split(line, ",")
	for i, p := range parts {
		p = strings.TrimPrefix(strings.TrimSuffix(p, `"`), `"`)
		parts[i] = strings.ReplaceAll(p, `""`, `"`)
	}
	return parts
}

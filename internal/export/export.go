package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/five82/trawl/internal/column"
	"github.com/five82/trawl/internal/record"
)

// Selection is what the viewer hands over for export: the selected records
// in display order and the columns to write, in display order.
type Selection struct {
	Records []record.Record
	Columns []column.Def
}

// Empty reports whether there is nothing to export.
func (s Selection) Empty() bool {
	return len(s.Records) == 0 || len(s.Columns) == 0
}

func (s Selection) header() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

func (s Selection) row(rec record.Record) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = rec.Field(c.Field)
	}
	return out
}

var tsvReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// TSV renders the selection as tab separated text with a header line.
// Separator records are skipped.
func TSV(s Selection) string {
	if s.Empty() {
		return ""
	}
	var b strings.Builder
	writeLine := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(tsvReplacer.Replace(c))
		}
		b.WriteByte('\n')
	}
	writeLine(s.header())
	for _, rec := range s.Records {
		if rec.IsSeparator() {
			continue
		}
		writeLine(s.row(rec))
	}
	return b.String()
}

// CSV renders the selection as RFC 4180 CSV with a header line. Separator
// records are skipped.
func CSV(s Selection) ([]byte, error) {
	if s.Empty() {
		return nil, nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(s.header()); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range s.Records {
		if rec.IsSeparator() {
			continue
		}
		if err := w.Write(s.row(rec)); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", rec.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSV writes the selection to path.
func WriteCSV(path string, s Selection) error {
	data, err := CSV(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

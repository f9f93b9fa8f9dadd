package rag

import (
	"strconv"
	"strings"
	"time"

	"sheetchat/pkg/ingest"
)

// FromTable emits one Document per row, in row order. The body lists every
// non-blank field as "<key> (<type>): <value>" with numbers and dates in the
// id-ID convention, so the text the model sees matches the rendered table.
func FromTable(t *ingest.Table, now time.Time) []Document {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	fields := strings.Join(names, ", ")
	ts := now.UTC().Format(time.RFC3339)

	docs := make([]Document, 0, len(t.Rows))
	for i, row := range t.Rows {
		var b strings.Builder
		b.WriteString("Row ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(":")
		for j, v := range row {
			if j >= len(t.Columns) || v.IsBlank() {
				continue
			}
			b.WriteString("\n")
			b.WriteString(t.Columns[j].Name)
			b.WriteString(" (")
			b.WriteString(fieldType(v))
			b.WriteString("): ")
			b.WriteString(fieldValue(v))
		}
		docs = append(docs, Document{
			Content: b.String(),
			Meta: Metadata{
				RowIndex:  i + 1,
				TotalRows: len(t.Rows),
				Source:    "excel_data",
				Fields:    fields,
				Timestamp: ts,
			},
		})
	}
	return docs
}

func fieldType(v ingest.Value) string {
	switch v.Kind {
	case ingest.KindNumber:
		return "number"
	case ingest.KindDate:
		return "date"
	default:
		return "string"
	}
}

func fieldValue(v ingest.Value) string {
	switch v.Kind {
	case ingest.KindNumber:
		return ingest.FormatNumber(v.Num)
	case ingest.KindDate:
		return ingest.FormatDate(v)
	default:
		return strings.TrimSpace(v.Str)
	}
}

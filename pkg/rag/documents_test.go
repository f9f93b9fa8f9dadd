package rag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetchat/pkg/ingest"
)

func sampleTable() *ingest.Table {
	return &ingest.Table{
		Columns: []ingest.ColumnSpec{
			{Name: "Nama", Type: ingest.TypeText},
			{Name: "Harga", Type: ingest.TypeCurrency},
			{Name: "Tanggal", Type: ingest.TypeDate},
		},
		Rows: []ingest.Row{
			{ingest.Text("Apel"), ingest.Number(1000000), ingest.Date(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC))},
			{ingest.Text("Jeruk"), ingest.Blank(), ingest.Blank()},
		},
	}
}

func TestFromTable_OneDocumentPerRow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	docs := FromTable(sampleTable(), now)
	require.Len(t, docs, 2)

	assert.Equal(t, "Row 1:\nNama (string): Apel\nHarga (number): 1.000.000\nTanggal (date): 15/3/2023", docs[0].Content)
	assert.Equal(t, 1, docs[0].Meta.RowIndex)
	assert.Equal(t, 2, docs[0].Meta.TotalRows)
	assert.Equal(t, "excel_data", docs[0].Meta.Source)
	assert.Equal(t, "Nama, Harga, Tanggal", docs[0].Meta.Fields)
	assert.Equal(t, "2024-06-01T12:00:00Z", docs[0].Meta.Timestamp)
}

func TestFromTable_BlankFieldsOmitted(t *testing.T) {
	docs := FromTable(sampleTable(), time.Now())
	require.Len(t, docs, 2)

	assert.Equal(t, "Row 2:\nNama (string): Jeruk", docs[1].Content)
	assert.Equal(t, 2, docs[1].Meta.RowIndex)
}

func TestFromTable_EmptyTable(t *testing.T) {
	docs := FromTable(&ingest.Table{}, time.Now())
	assert.Empty(t, docs)
}

package entities

import (
	"encoding/json"
	"time"

	"sheetchat/pkg/ai"
	"sheetchat/pkg/ingest"
)

// Document is one uploaded spreadsheet session: the raw rows, the column
// specs inferred at upload, and the embedding model plus parameters the
// session was created with. Rows and Columns persist as JSON blobs; the
// vector store is never persisted, it is rebuilt from these rows on every
// question.
type Document struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	Columns        []byte    `json:"-"`
	Rows           []byte    `json:"-"`
	RowCount       int       `json:"row_count"`
	EmbeddingModel string    `json:"embedding_model"`
	Params         []byte    `json:"-"`
	CreatedAt      time.Time `json:"timestamp"`
}

func (d *Document) SetTable(t *ingest.Table) error {
	cols, err := json.Marshal(t.Columns)
	if err != nil {
		return err
	}
	rows, err := json.Marshal(t.Rows)
	if err != nil {
		return err
	}
	d.Columns = cols
	d.Rows = rows
	d.RowCount = len(t.Rows)
	return nil
}

func (d *Document) Table() (*ingest.Table, error) {
	var t ingest.Table
	if len(d.Columns) > 0 {
		if err := json.Unmarshal(d.Columns, &t.Columns); err != nil {
			return nil, err
		}
	}
	if len(d.Rows) > 0 {
		if err := json.Unmarshal(d.Rows, &t.Rows); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func (d *Document) SetOverrides(o *ai.Overrides) error {
	if o == nil {
		d.Params = nil
		return nil
	}
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	d.Params = b
	return nil
}

func (d *Document) Overrides() (*ai.Overrides, error) {
	if len(d.Params) == 0 {
		return nil, nil
	}
	var o ai.Overrides
	if err := json.Unmarshal(d.Params, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

package ingest

import (
	"encoding/json"
	"fmt"
	"time"
)

// ColumnType is the semantic type inferred for a column once at ingestion.
type ColumnType string

const (
	TypeDate     ColumnType = "date"
	TypeCurrency ColumnType = "currency"
	TypeNumber   ColumnType = "number"
	TypeText     ColumnType = "text"
)

// ColumnSpec pairs a header name with its inferred type.
type ColumnSpec struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Kind tags a cell value. Consumers switch on the tag instead of
// re-inspecting runtime types downstream.
type Kind string

const (
	KindBlank  Kind = "blank"
	KindDate   Kind = "date"
	KindNumber Kind = "number"
	KindText   Kind = "text"
)

// Value is a tagged cell value, decided once when the sheet is parsed.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Time time.Time
}

func Blank() Value           { return Value{Kind: KindBlank} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func Text(s string) Value    { return Value{Kind: KindText, Str: s} }
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

func (v Value) IsBlank() bool { return v.Kind == KindBlank || v.Kind == "" }

type valueJSON struct {
	Kind Kind       `json:"k"`
	Num  *float64   `json:"n,omitempty"`
	Str  string     `json:"s,omitempty"`
	Time *time.Time `json:"t,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.Kind}
	if out.Kind == "" {
		out.Kind = KindBlank
	}
	switch v.Kind {
	case KindNumber:
		n := v.Num
		out.Num = &n
	case KindText:
		out.Str = v.Str
	case KindDate:
		t := v.Time
		out.Time = &t
	}
	return json.Marshal(out)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var in valueJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	v.Kind = in.Kind
	if v.Kind == "" {
		v.Kind = KindBlank
	}
	switch in.Kind {
	case KindNumber:
		if in.Num == nil {
			return fmt.Errorf("number value without payload")
		}
		v.Num = *in.Num
	case KindText:
		v.Str = in.Str
	case KindDate:
		if in.Time == nil {
			return fmt.Errorf("date value without payload")
		}
		v.Time = *in.Time
	}
	return nil
}

// Row holds one cell per column, aligned with the table's ColumnSpec order.
type Row []Value

// Table is the result of ingesting one sheet: the column specs and every
// data row, in source order. Immutable after Parse.
type Table struct {
	Columns []ColumnSpec `json:"columns"`
	Rows    []Row        `json:"rows"`
}

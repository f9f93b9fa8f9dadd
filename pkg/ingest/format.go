package ingest

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Cell rendering follows the Indonesian regional convention throughout:
// dot-grouped numbers, Rp currency, d/m/yyyy dates. Stored values stay
// plain; formatting happens only at the rendering boundary.

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatNumber renders a number with id-ID digit grouping.
func FormatNumber(v float64) string {
	return idPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatCurrency renders an IDR amount, no decimals, e.g. "Rp1.000.000".
func FormatCurrency(v float64) string {
	return "Rp" + idPrinter.Sprint(number.Decimal(math.Round(v), number.MaxFractionDigits(0)))
}

// FormatDate renders a date the way id-ID locale dates read: d/m/yyyy.
func FormatDate(v Value) string {
	if v.Kind != KindDate {
		return v.Str
	}
	t := v.Time
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// RenderCell produces the display form of a cell for the table view.
// Blank cells render as the "-" sentinel; the sentinel never enters storage.
func RenderCell(v Value, ct ColumnType) string {
	if v.IsBlank() {
		return "-"
	}
	switch ct {
	case TypeCurrency:
		if v.Kind == KindNumber {
			return FormatCurrency(v.Num)
		}
	case TypeNumber:
		if v.Kind == KindNumber {
			return FormatNumber(v.Num)
		}
	case TypeDate:
		if v.Kind == KindDate {
			return FormatDate(v)
		}
	}
	switch v.Kind {
	case KindNumber:
		return FormatNumber(v.Num)
	case KindDate:
		return FormatDate(v)
	}
	return v.Str
}

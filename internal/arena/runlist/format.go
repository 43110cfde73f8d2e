package runlist

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultTimeLayout renders times as "1/1/2020, 12:00:00 AM".
const DefaultTimeLayout = "1/2/2006, 3:04:05 PM"

// TimeFormat controls how submission times are printed. A zero TimeFormat
// uses DefaultTimeLayout in UTC.
type TimeFormat struct {
	Layout   string
	Location *time.Location
}

// Format renders t with seconds precision. A zero time renders empty.
func (f TimeFormat) Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(layout)
}

type numberFormat struct {
	printer *message.Printer
}

func newNumberFormat(tag language.Tag) numberFormat {
	return numberFormat{printer: message.NewPrinter(tag)}
}

func (n numberFormat) fixed(v float64, digits int) string {
	return n.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))
}

func (n numberFormat) percentage(score float64) string {
	return n.fixed(score*100, 2) + "%"
}

func (n numberFormat) points(score *float64) string {
	if score == nil {
		return ""
	}
	return n.fixed(*score, 2)
}

func (n numberFormat) runtime(ms int64) string {
	return n.fixed(float64(ms)/1000, 2) + " s"
}

func (n numberFormat) memory(bytes int64) string {
	return n.fixed(float64(bytes)/(1024*1024), 2) + " MB"
}

func (n numberFormat) integer(v int64) string {
	return strconv.FormatInt(v, 10)
}

package invoice

import (
	"encoding/json"
	"time"
)

// dateFormats is the ordered list of accepted textual date layouts.
// Invoices in the wild mix German day-first notation with ISO dates.
var dateFormats = []string{
	"02.01.2006",
	"2006-01-02",
	"02/01/2006",
}

// Date is a calendar date without a time component.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate tries each accepted layout in order. The boolean is false when no
// layout matches; an out-of-calendar value like "31.02.1965" never parses.
func ParseDate(s string) (Date, bool) {
	for _, layout := range dateFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Date{t}, true
		}
	}
	return Date{}, false
}

// InRange reports whether the year falls inside [minYear, maxYear].
func (d Date) InRange(minYear, maxYear int) bool {
	y := d.Year()
	return y >= minYear && y <= maxYear
}

// UnmarshalJSON accepts null or a string in any of the accepted layouts.
// Unparseable strings leave the Date zero instead of failing the decode;
// callers turn zero dates into absent fields during normalization.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		// Not a string, e.g. a number. Treat as absent, not as a failure.
		*d = Date{}
		return nil
	}
	if s == nil {
		*d = Date{}
		return nil
	}
	if parsed, ok := ParseDate(*s); ok {
		*d = parsed
		return nil
	}
	*d = Date{}
	return nil
}

// MarshalJSON renders the date in German day-first notation.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("02.01.2006"))
}

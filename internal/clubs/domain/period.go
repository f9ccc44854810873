package domain

import (
	"fmt"
	"strings"
	"time"
)

// recordDateLayout is the day/month/year form of Date_Time.
const recordDateLayout = "2/1/2006"

// queryDateLayouts are tried in order on the date a client asks for.
var queryDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"01/2006",
	"1/2006",
}

// Period is a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod reads the month a client asked for from any accepted date form.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return PeriodOf(t), nil
		}
	}
	return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

// MonthYear renders the period the way it appears inside Date_Time.
func (p Period) MonthYear() string {
	return fmt.Sprintf("%02d/%04d", int(p.Month), p.Year)
}

func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// recordTimeLayouts are the accepted time-of-day suffixes of Date_Time.
var recordTimeLayouts = []string{"15:04:05", "15:04"}

// ParseRecordDate parses a Date_Time value. An optional time of day after the
// date is honoured; a suffix in any other form is ignored.
func ParseRecordDate(s string) (time.Time, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("%w: empty Date_Time", ErrInvalidRecord)
	}
	t, err := time.Parse(recordDateLayout, fields[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: Date_Time %q", ErrInvalidRecord, s)
	}
	if len(fields) > 1 {
		for _, layout := range recordTimeLayouts {
			if tod, err := time.Parse(layout, fields[1]); err == nil {
				return t.Add(time.Duration(tod.Hour())*time.Hour +
					time.Duration(tod.Minute())*time.Minute +
					time.Duration(tod.Second())*time.Second), nil
			}
		}
	}
	return t, nil
}

// NormalizeRecordDate zero-pads the date part of a Date_Time value to
// DD/MM/YYYY and keeps any trailing time of day.
func NormalizeRecordDate(s string) (string, error) {
	t, err := ParseRecordDate(s)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(s)
	fields[0] = t.Format("02/01/2006")
	return strings.Join(fields, " "), nil
}

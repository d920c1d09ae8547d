package internlog

import (
	"math"
	"regexp"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// normalizeDate returns the cell as YYYY-MM-DD. Text that is already in
// that form is kept, numbers are serial dates, anything else goes through
// a free-form parse. What cannot be read is returned unchanged.
func normalizeDate(c cell, date1904 bool) string {
	if c.blank() {
		return ""
	}
	if !c.isNumber && isoDate.MatchString(c.text) {
		return c.text
	}
	if c.isNumber {
		if d, ok := serialDate(c.number, date1904); ok {
			return d
		}
	}
	if t, err := dateparse.ParseIn(c.text, time.UTC); err == nil {
		return t.UTC().Format(dateLayout)
	}
	return c.text
}

// serialDate converts a spreadsheet day number. The 1900 system counts
// 1900 as a leap year, so serials before 61 are one day off from the
// Gregorian calendar and 60 is 29 February 1900.
func serialDate(v float64, date1904 bool) (string, bool) {
	if !date1904 && v >= 1 && v < 61 {
		day := int(math.Floor(v))
		if day == 60 {
			return "1900-02-29", true
		}
		return time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day).Format(dateLayout), true
	}
	t, err := excelize.ExcelDateToTime(v, date1904)
	if err != nil {
		return "", false
	}
	return t.Format(dateLayout), true
}

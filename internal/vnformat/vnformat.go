// Package vnformat holds the cell-level string conventions shared with
// the spreadsheet: Vietnamese-locale currency strings, dd/mm/yyyy
// timestamps and the trimmed status vocabulary.
package vnformat

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the storage-side timestamp format. The sheet never
// carries ISO-8601; every timestamp is Vietnam local time.
const TimestampLayout = "02/01/2006 15:04:05"

// vnLocation is Asia/Ho_Chi_Minh, falling back to a fixed +07:00 zone
// when the tzdata is unavailable on the host.
var vnLocation = loadVNLocation()

func loadVNLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// ParseCurrency strips every non-digit character (spaces, dot thousands
// separators, the ₫ glyph) and parses the remainder as a base-10
// integer. Empty or unparseable input yields 0. Negative amounts are
// not representable; the sheet never carries them.
func ParseCurrency(cell string) int64 {
	var b strings.Builder
	for _, r := range cell {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatCurrency renders an amount the way the sheet and the customer
// mails expect it: dot thousands separators, e.g. 1234567 -> "1.234.567".
func FormatCurrency(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatCurrencyVND appends the currency glyph used in notification
// payloads.
func FormatCurrencyVND(amount int64) string {
	return FormatCurrency(amount) + "₫"
}

// ParseTimestamp parses a dd/mm/yyyy HH:MM:SS cell. Malformed input
// returns the epoch-zero sentinel rather than an error so that sort
// comparisons stay total.
func ParseTimestamp(cell string) time.Time {
	t, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(cell), vnLocation)
	if err != nil {
		return time.Unix(0, 0)
	}
	return t
}

// Now returns the current Vietnam wall-clock time.
func Now() time.Time {
	return time.Now().In(vnLocation)
}

// FormatTimestamp renders a timestamp in the storage layout.
func FormatTimestamp(t time.Time) string {
	return t.In(vnLocation).Format(TimestampLayout)
}

// DayStamp renders the yyyymmdd key used by the daily order counter.
func DayStamp(t time.Time) string {
	return t.In(vnLocation).Format("20060102")
}

// DateOf returns the dd/mm/yyyy prefix of a stored timestamp, or ""
// when the cell is empty.
func DateOf(cell string) string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return ""
	}
	return strings.SplitN(cell, " ", 2)[0]
}

// CleanText trims surrounding whitespace. Status comparisons elsewhere
// are case-sensitive exact matches against the fixed vocabulary, so
// this is the only normalization applied.
func CleanText(cell string) string {
	return strings.TrimSpace(cell)
}

// Cell renders a raw spreadsheet value as a string, tolerating the
// interface{} cells the Sheets API returns.
func Cell(row []interface{}, index int) string {
	if index < 0 || index >= len(row) || row[index] == nil {
		return ""
	}
	if s, ok := row[index].(string); ok {
		return s
	}
	return fmt.Sprintf("%v", row[index])
}

// Package filters holds the date and text helpers used while rendering the
// profile page. Dates in site data are written DD-MM-YYYY.
package filters

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	dayMs   = 24 * 60 * 60 * 1000.0
	yearMs  = 365.25 * dayMs
	monthMs = 30.44 * dayMs

	dueSoonDays = 30
)

// ParseDate parses a DD-MM-YYYY date at local midnight. Out of range days
// and months roll over the way time.Date normalises them.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	parts := strings.Split(s, "-")
	if len(parts) < 3 {
		return time.Time{}, false
	}
	var n [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return time.Time{}, false
		}
		n[i] = v
	}
	day, month, year := n[0], n[1], n[2]
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// ParseISO parses a YYYY-MM-DD date, as found in data-dob attributes.
func ParseISO(s string) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ToISO rewrites DD-MM-YYYY as YYYY-MM-DD. Invalid input yields "".
func ToISO(s string) string {
	if _, ok := ParseDate(s); !ok {
		return ""
	}
	parts := strings.Split(s, "-")
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// FormatDate renders a DD-MM-YYYY date as "January 2, 2006".
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format("January 2, 2006")
}

// CalculateAge describes the age of something born on the DD-MM-YYYY date
// dob, e.g. "2 years, 3 months old".
func CalculateAge(dob string, now time.Time) string {
	t, ok := ParseDate(dob)
	if !ok {
		return ""
	}
	return Age(t, now)
}

// Age describes the time between dob and now using 365.25-day years and
// 30.44-day months.
func Age(dob, now time.Time) string {
	diff := float64(now.Sub(dob).Milliseconds())
	years := int(math.Floor(diff / yearMs))
	months := int(math.Floor(math.Mod(diff, yearMs) / monthMs))

	switch {
	case years == 0:
		return fmt.Sprintf("%d %s old", months, plural(months, "month"))
	case months == 0:
		return fmt.Sprintf("%d %s old", years, plural(years, "year"))
	default:
		return fmt.Sprintf("%d %s, %d %s old", years, plural(years, "year"), months, plural(months, "month"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// FormatRoutineKey turns a camelCase key into "Title Case With Spaces".
func FormatRoutineKey(key string) string {
	if key == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := []rune(b.String())
	out[0] = unicode.ToUpper(out[0])
	return strings.TrimSpace(string(out))
}

// CurrentYear returns the year of now.
func CurrentYear(now time.Time) int {
	return now.Year()
}

// TelLink strips a phone number down to digits and '+' for a tel: href.
func TelLink(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Package format renders dates and counts for templates.
package format

import (
	"fmt"
	"strings"
	"time"
)

// FmtCount groups digits by thousands: 12345 => "12,345".
func FmtCount(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FmtDate formats t in a locale-friendly short form. Zero times render empty.
func FmtDate(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	switch strings.ToLower(lang) {
	case "bn":
		return t.Format("2 Jan 2006")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// FmtMonth formats t as month and year, e.g. "Mar 2024".
func FmtMonth(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2006")
}

// Period renders an employment range such as "Jan 2021 - Present".
// display overrides the end when the backend supplies its own label.
func Period(start, end time.Time, current bool, display, present string) string {
	from := FmtMonth(start)
	to := strings.TrimSpace(display)
	switch {
	case current:
		to = present
	case to == "":
		to = FmtMonth(end)
	}
	switch {
	case from == "":
		return to
	case to == "":
		return from
	}
	return from + " - " + to
}

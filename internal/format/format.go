package format

import (
	"strings"
	"time"
)

// FmtDate formats a review date in a locale-friendly short form.
func FmtDate(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	switch strings.ToLower(lang) {
	case "en-us":
		return t.Format("Jan 2, 2006")
	default:
		return t.Format("2 Jan 2006")
	}
}

// ISODate is the machine-readable form used in <time datetime>.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Stars returns five flags, true for each filled star. Ratings outside
// [0,5] are clamped.
func Stars(rating int) []bool {
	rating = max(0, min(rating, 5))
	out := make([]bool, 5)
	for i := range rating {
		out[i] = true
	}
	return out
}

// Hours renders an opening-hours row, e.g. "08:00 - 18:00".
func Hours(opens, closes string, closed bool) string {
	if closed || (opens == "" && closes == "") {
		return "Closed"
	}
	return opens + " - " + closes
}

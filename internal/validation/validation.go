// Package validation contains the pure input checks applied before any
// data reaches the store. Every function is side-effect free: one input
// in, a verdict (or a normalized value) out. String fields destined for
// storage are escaped with Escape so that markup-significant characters
// never persist verbatim.
package validation

import (
	"html"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// emailRe is a pragmatic email-syntax check: local part, one @, a dotted
// domain with an alphabetic TLD.
var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// DateLayout is the only accepted calendar-date format for bookings.
const DateLayout = "2006-01-02"

// Escape trims the input and escapes markup-significant characters
// (&, <, >, ", ') so stored values are safe for any HTML-rendering
// consumer.
func Escape(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// IsEmail reports whether s conforms to standard email-address syntax.
func IsEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// IsName reports whether a customer name is acceptable: no angle-bracket
// characters, and a trimmed, escaped length between 2 and 100.
func IsName(s string) bool {
	if strings.ContainsAny(s, "<>") {
		return false
	}
	n := len(Escape(s))
	return n >= 2 && n <= 100
}

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsPhone reports whether s contains between 7 and 15 digits once all
// non-digit characters are stripped. Formatting characters such as
// spaces, dashes and a leading plus are therefore tolerated.
func IsPhone(s string) bool {
	n := len(Digits(s))
	return n >= 7 && n <= 15
}

// IsFutureDate reports whether s is a well-formed YYYY-MM-DD date that
// lies strictly after "today" relative to now. The comparison happens at
// day granularity: a booking for today is rejected, tomorrow is accepted
// regardless of the time of day the request arrives.
func IsFutureDate(s string, now time.Time) bool {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return false
	}
	y, m, dd := now.Date()
	today := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	return d.After(today)
}

// ParsePrice normalizes a price supplied either as a JSON number or as a
// numeric string into a float64. It reports false for anything that is
// not a finite number strictly greater than zero.
func ParsePrice(v any) (float64, bool) {
	var p float64
	switch t := v.(type) {
	case float64:
		p = t
	case int:
		p = float64(t)
	case int64:
		p = float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		p = f
	default:
		return 0, false
	}
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return 0, false
	}
	return p, true
}

// ParseID normalizes an entity reference supplied either as a JSON
// number or a numeric string into a positive int64.
func ParseID(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || t < 1 {
			return 0, false
		}
		return int64(t), true
	case int:
		if t < 1 {
			return 0, false
		}
		return int64(t), true
	case int64:
		if t < 1 {
			return 0, false
		}
		return t, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil || n < 1 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// IsStatus reports whether s is one of the fixed booking status values.
// Anything else, including the historical "completed" value, is rejected.
func IsStatus(s string) bool {
	switch s {
	case "pending", "confirmed", "cancelled":
		return true
	}
	return false
}

// NormalizeImageURL returns a storable image reference: an absolute
// http(s) URL or a root-relative path is kept as-is, anything malformed
// collapses to the empty string so a bad image never fails the whole
// tour-creation request.
func NormalizeImageURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "<>\"' \t\n") {
		return ""
	}
	if strings.HasPrefix(s, "/") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return s
}

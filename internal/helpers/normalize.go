package helpers

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	ErrInvalidDate = errors.New("invalid event date provided")
	ErrInvalidTime = errors.New("event time must be in HH:mm or h:mm am/pm format")
)

const isoDate = "2006-01-02"

var (
	clock24Re = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
	clock12Re = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*([ap]m)$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizeDate returns the calendar date of s as YYYY-MM-DD. Values carrying
// a zone offset are converted to UTC first; values without one are read as UTC.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidDate
	}
	if t, err := time.Parse(isoDate, s); err == nil {
		return t.Format(isoDate), nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.UTC().Format(isoDate), nil
}

// NormalizeTime converts "HH:mm" or "h:mm am/pm" into 24-hour "HH:mm".
// A 24-hour looking value with an out of range hour or minute is retried
// against the 12-hour form before being rejected.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)

	if m := clock24Re.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if h <= 23 && minute <= 59 {
			return m[1] + ":" + m[2], nil
		}
	}

	m := clock12Re.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if h < 1 || h > 12 || minute > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	switch strings.ToLower(m[3]) {
	case "pm":
		if h != 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	return fmt.Sprintf("%02d:%02d", h, minute), nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsEmail(email string) bool {
	return emailRe.MatchString(email)
}

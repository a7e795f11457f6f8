package converters

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

var (
	unitToken = regexp.MustCompile(`(?i)^(\d+)\s*(hours?|hrs?|h|minutes?|mins?|m|seconds?|secs?|s)[\s,]*`)
	clockForm = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	meridiem  = regexp.MustCompile(`(?i)^(\d{1,2})(?::(\d{2}))?(?::(\d{2}))?\s*([ap])\.?m\.?$`)
)

// HMSToSeconds converts a time-of-day style duration such as "2h 10m 20s",
// "1 hour 5 minutes", "10:30:15" or "3pm" into seconds. Other strings are handed to a
// general date/time parser and only their hour, minute and second are used.
// Hours must be below 24 and minutes and seconds below 60.
//
// Errors wrap ErrInvalidArgument and their message starts with errorPrefix.
func HMSToSeconds(text string, errorPrefix string) (int, error) {
	h, m, s, err := parseHMS(strings.TrimSpace(text))
	if err != nil {
		return 0, invalidArgument(errorPrefix, err)
	}
	return h*3600 + m*60 + s, nil
}

func parseHMS(text string) (int, int, int, error) {
	if text == "" {
		return 0, 0, 0, errors.New("string does not contain a date")
	}
	if h, m, s, ok, err := parseUnits(text); ok || err != nil {
		return h, m, s, err
	}
	if match := meridiem.FindStringSubmatch(text); match != nil {
		return parseMeridiem(match)
	}
	if match := clockForm.FindStringSubmatch(text); match != nil {
		h, _ := strconv.Atoi(match[1])
		m, _ := strconv.Atoi(match[2])
		s := 0
		if match[3] != "" {
			s, _ = strconv.Atoi(match[3])
		}
		return checkHMS(h, m, s)
	}

	t, err := dateparse.ParseAny(text)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("unknown string format: %s: %w", text, err)
	}
	return t.Hour(), t.Minute(), t.Second(), nil
}

// parseUnits consumes "<number><unit>" tokens. ok is false when text does not
// start with such a token, leaving it to the other grammars.
func parseUnits(text string) (h, m, s int, ok bool, err error) {
	seen := map[byte]bool{}
	rest := text
	for rest != "" {
		match := unitToken.FindStringSubmatch(rest)
		if match == nil {
			if !ok {
				return 0, 0, 0, false, nil
			}
			return 0, 0, 0, true, fmt.Errorf("unknown string format: %s", text)
		}
		after := rest[len(match[0]):]
		if after != "" && isASCIILetter(after[0]) {
			return 0, 0, 0, true, fmt.Errorf("unknown string format: %s", text)
		}
		ok = true
		n, convErr := strconv.Atoi(match[1])
		if convErr != nil {
			return 0, 0, 0, true, fmt.Errorf("invalid number %q: %w", match[1], convErr)
		}
		unit := strings.ToLower(match[2])[0]
		if seen[unit] {
			return 0, 0, 0, true, fmt.Errorf("repeated unit in %s", text)
		}
		seen[unit] = true
		switch unit {
		case 'h':
			h = n
		case 'm':
			m = n
		case 's':
			s = n
		}
		rest = after
	}
	h, m, s, err = checkHMS(h, m, s)
	return h, m, s, true, err
}

// parseMeridiem maps a 12-hour clock reading onto 0..23. 12am is midnight and
// 12pm is noon.
func parseMeridiem(match []string) (int, int, int, error) {
	h, _ := strconv.Atoi(match[1])
	if h < 1 || h > 12 {
		return 0, 0, 0, fmt.Errorf("hour must be in 1..12 with am/pm: %d", h)
	}
	m, s := 0, 0
	if match[2] != "" {
		m, _ = strconv.Atoi(match[2])
	}
	if match[3] != "" {
		s, _ = strconv.Atoi(match[3])
	}
	h %= 12
	if strings.EqualFold(match[4], "p") {
		h += 12
	}
	return checkHMS(h, m, s)
}

func checkHMS(h, m, s int) (int, int, int, error) {
	switch {
	case h > 23:
		return 0, 0, 0, fmt.Errorf("hour must be in 0..23: %d", h)
	case m > 59:
		return 0, 0, 0, fmt.Errorf("minute must be in 0..59: %d", m)
	case s > 59:
		return 0, 0, 0, fmt.Errorf("second must be in 0..59: %d", s)
	}
	return h, m, s, nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

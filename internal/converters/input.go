package converters

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

type inputKind int

const (
	inputNone inputKind = iota
	inputStructured
	inputRaw
)

// TimeInput is either a time.Time value or a string still to be parsed. The zero
// value holds neither and is rejected by every conversion.
type TimeInput struct {
	kind inputKind
	t    time.Time
	raw  string
}

// Structured wraps an already parsed time.
func Structured(t time.Time) TimeInput {
	return TimeInput{kind: inputStructured, t: t}
}

// Raw wraps a date/time string such as "2024-03-01T10:00:00Z" or
// "2024-03-01 10:00:00".
func Raw(s string) TimeInput {
	return TimeInput{kind: inputRaw, raw: s}
}

func (in TimeInput) String() string {
	switch in.kind {
	case inputStructured:
		return in.t.String()
	case inputRaw:
		return in.raw
	default:
		return "<empty>"
	}
}

// resolved is a TimeInput after parsing. hasOffset is false when a string named
// no zone or offset; structured times always carry one.
type resolved struct {
	t         time.Time
	hasOffset bool
}

// probeZone is an arbitrary non-zero zone used to tell whether a string carried
// its own offset.
var probeZone = time.FixedZone("probe", 7*3600+30*60)

func (in TimeInput) resolve(arg string) (resolved, error) {
	switch in.kind {
	case inputStructured:
		return resolved{t: in.t, hasOffset: true}, nil
	case inputRaw:
		s := strings.TrimSpace(in.raw)
		if s == "" {
			return resolved{}, invalidArgumentf("input `%s` is an empty string", arg)
		}
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return resolved{}, invalidArgument(fmt.Sprintf("input `%s` is not a valid date/time: ", arg), err)
		}
		probe, err := dateparse.ParseIn(s, probeZone)
		if err != nil {
			return resolved{}, invalidArgument(fmt.Sprintf("input `%s` is not a valid date/time: ", arg), err)
		}
		return resolved{t: t, hasOffset: t.Equal(probe)}, nil
	default:
		return resolved{}, invalidArgumentf("input `%s` is not string or time", arg)
	}
}

// wall keeps the wall clock of t and reinterprets it in loc.
func wall(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

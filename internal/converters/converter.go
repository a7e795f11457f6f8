package converters

import (
	"time"

	"github.com/JakeFAU/quantum-runtime-client/internal/clock/system"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Converter converts between UTC and a fixed local location.
type Converter struct {
	loc   *time.Location
	clock Clock
}

// Option configures a Converter.
type Option func(*Converter)

// WithLocation sets the location treated as local time.
func WithLocation(loc *time.Location) Option {
	return func(c *Converter) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock overrides the clock used by DurationUntil.
func WithClock(clock Clock) Option {
	return func(c *Converter) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New builds a Converter using time.Local and the system clock unless
// overridden.
func New(opts ...Option) *Converter {
	c := &Converter{
		loc:   time.Local,
		clock: system.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the location treated as local time.
func (c *Converter) Location() *time.Location {
	return c.loc
}

// UTCToLocal treats the wall clock of in as UTC, discarding any offset it
// carries, and returns the same instant in the local location.
func (c *Converter) UTCToLocal(in TimeInput) (time.Time, error) {
	r, err := in.resolve("utc_dt")
	if err != nil {
		return time.Time{}, err
	}
	return wall(r.t, time.UTC).In(c.loc), nil
}

// LocalToUTC converts a local time to UTC. Input without an offset, or with a
// non-zero one other than the local offset at that instant, has its wall clock
// read in the local location. Input carrying the local offset is converted as
// the instant it denotes. Input that already carries a zero offset is returned
// unchanged.
func (c *Converter) LocalToUTC(in TimeInput) (time.Time, error) {
	r, err := in.resolve("local_dt")
	if err != nil {
		return time.Time{}, err
	}
	if r.hasOffset {
		_, offset := r.t.Zone()
		if offset == 0 {
			return r.t, nil
		}
		// The offset already pins the instant. Rebuilding from the wall clock
		// would pick the first of two candidates in a repeated DST hour.
		if _, localOffset := r.t.In(c.loc).Zone(); localOffset == offset {
			return r.t.UTC(), nil
		}
	}
	return wall(r.t, c.loc).UTC(), nil
}

// ConvertTreeUTCToLocal returns a copy of data in which every time.Time found
// inside slices and maps is converted with UTCToLocal. Only []any and
// map[string]any are traversed; other values are returned as is. Input must be
// acyclic.
func (c *Converter) ConvertTreeUTCToLocal(data any) any {
	switch v := data.(type) {
	case time.Time:
		return wall(v, time.UTC).In(c.loc)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = c.ConvertTreeUTCToLocal(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[key] = c.ConvertTreeUTCToLocal(elem)
		}
		return out
	default:
		return data
	}
}

var std = New()

// UTCToLocal converts with the host's local time zone.
func UTCToLocal(in TimeInput) (time.Time, error) { return std.UTCToLocal(in) }

// LocalToUTC converts with the host's local time zone.
func LocalToUTC(in TimeInput) (time.Time, error) { return std.LocalToUTC(in) }

// ConvertTreeUTCToLocal converts with the host's local time zone.
func ConvertTreeUTCToLocal(data any) any { return std.ConvertTreeUTCToLocal(data) }

// DurationUntil formats the time left until target using the system clock.
func DurationUntil(target time.Time) string { return std.DurationUntil(target) }

// Package converters holds the time helpers used when presenting job data:
// UTC/local conversion of timestamps, countdown formatting for estimated start
// times, and parsing of "2h 10m 20s" style durations.
//
// All functions are synchronous and side-effect free. The package-level
// functions use the host's local time zone and the system clock; build a
// Converter with New to pin either one.
package converters

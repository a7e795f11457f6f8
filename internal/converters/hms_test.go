package converters

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMSToSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"2h 10m 20s", 7820},
		{"2h10m20s", 7820},
		{"5m30s", 330},
		{"45s", 45},
		{"1 hour 5 minutes", 3900},
		{"3 hrs, 2 mins, 1 sec", 10921},
		{"  2H 10M  ", 7800},
		{"10:30", 37800},
		{"10:30:15", 37815},
		{"2024-01-02 03:04:05", 11045},
		{"10am", 36000},
		{"3pm", 54000},
		{"10:30 pm", 81000},
		{"12am", 0},
		{"12:15PM", 44100},
		{"7:05:09 a.m.", 25509},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := HMSToSeconds(tc.in, "")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHMSToSecondsErrors(t *testing.T) {
	t.Parallel()

	inputs := []string{"not a time", "", "25h", "10m 61s", "2h 3h", "2h and more", "10:75", "13pm", "0am", "3:61pm"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			_, err := HMSToSeconds(in, "prefix: ")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
			assert.True(t, strings.HasPrefix(err.Error(), "prefix: "), "message %q", err.Error())

			var invalid *InvalidArgumentError
			require.True(t, errors.As(err, &invalid))
			assert.NotNil(t, invalid.Err)
		})
	}
}

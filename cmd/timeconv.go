package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/quantum-runtime-client/internal/converters"
)

func newTimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Convert timestamps and durations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "to-local <timestamp>",
		Short: "Read a timestamp as UTC and print it in the local zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			t, err := appInstance.Converter().UTCToLocal(converters.Raw(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Format(time.RFC3339))
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "to-utc <timestamp>",
		Short: "Read a local timestamp and print it in UTC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			t, err := appInstance.Converter().LocalToUTC(converters.Raw(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Format(time.RFC3339))
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "until <timestamp>",
		Short: "Print the time left until a local timestamp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			conv := appInstance.Converter()
			target, err := conv.LocalToUTC(converters.Raw(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), conv.DurationUntil(target.In(conv.Location())))
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "hms <text>",
		Short: `Convert a duration like "2h 10m 20s" or "02:10:20" to seconds`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := converters.HMSToSeconds(args[0], "hms: ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), seconds)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "split <seconds>",
		Short: "Split a number of seconds into days, hours, minutes, seconds and milliseconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse seconds %q: %w", args[0], err)
			}
			d := converters.SecondsToDuration(seconds)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%dd %dh %dm %ds %dms\n",
				d.Days, d.Hours, d.Minutes, d.Seconds, d.Milliseconds)
			return err
		},
	})
	return cmd
}

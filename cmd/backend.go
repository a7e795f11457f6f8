package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newBackendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Query backends",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "jobs-limit <backend-name>",
		Short: "Print the maximum and running job counts of a backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			limits, err := appInstance.Backend(args[0]).JobsLimit(cmd.Context())
			if err != nil {
				return err
			}
			body, err := json.MarshalIndent(limits, "", "  ")
			if err != nil {
				return fmt.Errorf("encode jobs limit: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return err
		},
	})
	return cmd
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/quantum-runtime-client/internal/datamap"
	"github.com/JakeFAU/quantum-runtime-client/internal/rest"
	"github.com/JakeFAU/quantum-runtime-client/internal/session"
)

// jobFields renames job fields whose normalized name would be unclear.
var jobFields = datamap.FieldMap{
	"created":   "creation_date",
	"program":   "program_id",
	"backend":   "backend_name",
	"runtime":   "runtime_image",
	"userId":    "user_id",
	"sessionId": "session_id",
}

func newJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Work with runtime jobs",
	}
	cmd.AddCommand(newJobGetCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobAction(cmd, args[0], "deleted", (*rest.ProgramJob).Delete)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a queued or running job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobAction(cmd, args[0], "cancel requested", (*rest.ProgramJob).Cancel)
		},
	})
	cmd.AddCommand(newJobTextCmd("results", "Print the final results of a job", (*rest.ProgramJob).Results))
	cmd.AddCommand(newJobTextCmd("interim-results", "Print the interim results of a job", (*rest.ProgramJob).InterimResults))
	cmd.AddCommand(newJobTextCmd("logs", "Print the logs of a job", (*rest.ProgramJob).Logs))
	cmd.AddCommand(newJobTextCmd("metrics", "Print the metrics of a job", (*rest.ProgramJob).Metadata))
	return cmd
}

func newJobGetCmd() *cobra.Command {
	var (
		localTimes bool
		normalize  bool
		save       bool
	)
	cmd := &cobra.Command{
		Use:   "get <job-id>",
		Short: "Print the job record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			job := appInstance.Job(args[0])
			jobID := job.JobID()

			record, err := job.Get(cmd.Context())
			if err != nil {
				return jobError(job, err)
			}
			if normalize {
				datamap.RenameKeys(record, jobFields)
			}
			var out any = record
			if localTimes {
				out = appInstance.Converter().ConvertTreeUTCToLocal(parseTimestamps(record))
			}

			body, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("encode job %s: %w", jobID, err)
			}
			if save {
				if err := saveArtifact(cmd, appInstance, jobID, "job", body); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return err
		},
	}
	cmd.Flags().BoolVar(&localTimes, "local-times", false, "render RFC 3339 timestamps in the configured local zone")
	cmd.Flags().BoolVar(&normalize, "normalize-keys", false, "rename keys to snake_case identifiers")
	cmd.Flags().BoolVar(&save, "save", false, "archive the printed record")
	return cmd
}

func newJobTextCmd(use, short string, fetch func(*rest.ProgramJob, context.Context) (string, error)) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   use + " <job-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			job := appInstance.Job(args[0])

			body, err := fetch(job, cmd.Context())
			if err != nil {
				return jobError(job, err)
			}
			if save {
				if err := saveArtifact(cmd, appInstance, job.JobID(), use, []byte(body)); err != nil {
					return err
				}
			}
			return writeText(cmd.OutOrStdout(), body)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "archive the response body")
	return cmd
}

func runJobAction(cmd *cobra.Command, jobID, done string, action func(*rest.ProgramJob, context.Context) error) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	job := appInstance.Job(jobID)
	if err := action(job, cmd.Context()); err != nil {
		return jobError(job, err)
	}
	appInstance.Logger().Info("job "+done, zap.String("job_id", job.JobID()))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "job %s %s\n", job.JobID(), done)
	return err
}

// jobError names the job when the runtime does not know it.
func jobError(job *rest.ProgramJob, err error) error {
	if session.IsNotFound(err) {
		return fmt.Errorf("job %s not found: %w", job.JobID(), err)
	}
	return err
}

func saveArtifact(cmd *cobra.Command, appInstance App, jobID, artifact string, body []byte) error {
	archiver := appInstance.Archiver()
	if archiver == nil {
		return fmt.Errorf("--save needs archive.provider to be set")
	}
	receipt, err := archiver.Save(cmd.Context(), jobID, artifact, body)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.ErrOrStderr(), "saved %s (%s:%s)\n", receipt.URI, receipt.Algorithm, receipt.Digest)
	return err
}

func writeText(w io.Writer, body string) error {
	if body == "" || body[len(body)-1] != '\n' {
		body += "\n"
	}
	_, err := io.WriteString(w, body)
	return err
}

// parseTimestamps returns a copy of data in which RFC 3339 strings are replaced
// by the time.Time they denote.
func parseTimestamps(data any) any {
	switch v := data.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = parseTimestamps(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[key] = parseTimestamps(elem)
		}
		return out
	default:
		return data
	}
}


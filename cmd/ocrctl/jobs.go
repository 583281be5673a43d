package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/view"
	"github.com/spf13/cobra"
)

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the status of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client()
			if err != nil {
				return err
			}
			status, err := api.GetJobStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				status.JobID, status.Status, view.ProgressBar(status.Progress, barWidth), status.CurrentStep)
			if status.EstimatedTime != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "about %ds remaining\n", *status.EstimatedTime)
			}
			if status.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "error: %s\n", status.Error)
			}
			return nil
		},
	}
}

func resultCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "result <job-id>",
		Short: "Print the OCR result of a completed job as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client()
			if err != nil {
				return err
			}
			result, err := api.GetJobResult(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func cancelCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a pending or processing job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client()
			if err != nil {
				return err
			}
			cancelled, err := api.CancelJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if cancelled {
				fmt.Fprintf(cmd.OutOrStdout(), "job %s cancelled\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "job %s already finished\n", args[0])
			}
			return nil
		},
	}
}

func deleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a job and its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client()
			if err != nil {
				return err
			}
			if err := api.DeleteJob(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "job %s deleted\n", args[0])
			return nil
		},
	}
}

func jobsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List job history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client()
			if err != nil {
				return err
			}
			jobs, err := api.ListJobs(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "JOB ID\tFILE\tSIZE\tPAGES\tSTATUS\tPROGRESS\tCREATED")
			for _, j := range jobs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.0f%%\t%s\n",
					j.JobID, j.FileName, view.FormatSize(j.FileSize), j.PageCount, j.Status, j.Progress,
					time.UnixMilli(j.CreatedAt).Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}

func healthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.client()
			if err != nil {
				return err
			}
			health, err := api.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (version %s)\n", api.BaseURL(), health.Status, health.Version)
			return nil
		},
	}
}

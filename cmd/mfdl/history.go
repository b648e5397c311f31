package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/mediafire-dl-go/internal/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past runs, or the job outcomes of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newSession()
		if err != nil {
			return err
		}
		defer rt.Close()

		repo, err := rt.openHistory()
		if err != nil {
			return err
		}
		defer repo.Close()

		if len(args) == 1 {
			status, _ := cmd.Flags().GetString("status")
			return showRun(cmd.OutOrStdout(), repo, args[0], domain.JobStatus(status))
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := repo.FindRuns(limit)
		if err != nil {
			return err
		}
		printRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show (0 = all)")
	historyCmd.Flags().StringP("status", "s", "", "Filter jobs by status (succeeded, failed)")
}

func printRuns(out io.Writer, runs []*domain.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tTOTAL\tOK\tFAILED\tURL")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			truncate(r.ID, 8),
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Total,
			r.Succeeded,
			r.Failed,
			truncate(r.URL, 60))
	}
	w.Flush()
}

func showRun(out io.Writer, repo domain.RunRepository, id string, status domain.JobStatus) error {
	if status != "" && !domain.ValidateJobStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}

	run, err := repo.FindRunByID(id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", id)
	}

	fmt.Fprintf(out, "Run Details:\n")
	fmt.Fprintf(out, "  ID:      %s\n", run.ID)
	fmt.Fprintf(out, "  URL:     %s\n", run.URL)
	fmt.Fprintf(out, "  Output:  %s\n", run.OutputDir)
	fmt.Fprintf(out, "  Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		fmt.Fprintf(out, "  Elapsed: %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
	}
	fmt.Fprintf(out, "  Result:  %d succeeded, %d failed of %d\n", run.Succeeded, run.Failed, run.Total)

	jobs, err := repo.FindJobs(run.ID, status)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tSIZE\tPATH\tERROR")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", j.Status, j.SizeBytes, j.DestinationPath, j.ErrorMessage)
	}
	return w.Flush()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

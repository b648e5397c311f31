package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/mediafire-dl-go/internal/app"
	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"github.com/yourusername/mediafire-dl-go/internal/infrastructure"
)

func runDownload(cmd *cobra.Command, args []string) error {
	rt, err := newSession()
	if err != nil {
		return err
	}
	defer rt.Close()

	config := rt.config
	if cmd.Flags().Changed("output") {
		config.Download.OutputDir, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("max") {
		config.Download.MaxConcurrent, _ = cmd.Flags().GetInt("max")
	}
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		config.Download.ShowProgress = false
	}
	if err := app.ValidateConfig(config); err != nil {
		return err
	}

	client := infrastructure.NewHTTPClient(&config.Download)
	resolver := infrastructure.NewMediaFireResolver(client, &config.MediaFire, config.Download.UserAgent, rt.log)
	transferer := infrastructure.NewHTTPTransferer(client, config.Download.UserAgent, rt.log)
	notifier := infrastructure.NewNotificationService(&config.Notification, rt.log)

	var repo domain.RunRepository
	if config.History.Enabled {
		history, err := rt.openHistory()
		if err != nil {
			rt.log.Warn("Run history disabled", zap.Error(err))
		} else {
			defer history.Close()
			repo = history
		}
	}

	var display app.ProgressDisplay
	if config.Download.ShowProgress {
		display = infrastructure.NewProgressBar(os.Stderr)
	}

	orchestrator := app.NewOrchestrator(resolver, transferer, repo, notifier, display, rt.logAdapter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := orchestrator.Run(ctx, args[0], config.Download.OutputDir, config.Download.MaxConcurrent)
	if errors.Is(err, domain.ErrNothingToDownload) {
		return err
	}

	// an interrupted run still reports what finished
	printReport(cmd.OutOrStdout(), report)
	return err
}

// printReport writes the run summary and the path of every failed download
func printReport(w io.Writer, report *app.Report) {
	fmt.Fprintf(w, "Downloaded %d of %d files in %s\n",
		len(report.Successful), report.Total, report.Elapsed.Round(time.Millisecond))

	if len(report.Failed) == 0 {
		return
	}
	fmt.Fprintln(w, "Failed downloads:")
	for _, path := range report.FailedPaths() {
		fmt.Fprintf(w, "  %s\n", path)
	}
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Run one full ingestion pass and exit",
		Long: `Crawls every configured company through its ATS listing API and then
pulls the aggregator connectors, printing a summary of the run.`,
		RunE: runCrawlCommand,
	}
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	app, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer app.close()

	report := app.orchestrator.RunDaily(cmd.Context())
	fmt.Printf("companies=%d created=%d updated=%d skipped=%d errors=%d duration=%s\n",
		report.Companies,
		report.JobsCreated,
		report.JobsUpdated,
		report.Skipped,
		report.Errors,
		report.FinishedAt.Sub(report.StartedAt).Round(10*time.Millisecond),
	)
	if report.Errors > 0 {
		return fmt.Errorf("run finished with %d errors", report.Errors)
	}
	return nil
}

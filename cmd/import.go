package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "import <url>",
		Short: "Import a single job posting from its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.close()

			job, created, err := app.orchestrator.ImportFromLink(cmd.Context(), args[0], userID)
			if err != nil {
				return err
			}
			verb := "updated"
			if created {
				verb = "created"
			}
			fmt.Printf("%s job %d: %q (%s, %s)\n", verb, job.ID, job.Title, job.ATSType, job.Location)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "link the imported job to this user's saved list")
	return cmd
}

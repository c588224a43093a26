package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldlens/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		clientName  string
		clientEmail string
		property    string
		date        string
		concurrency int
		register    bool
	)

	cmd := &cobra.Command{
		Use:   "run <zip-or-directory>",
		Short: "Analyze a photo set and generate the inspection report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			res, err := pipeline.Run(cmd.Context(), cfg, args[0], pipeline.Options{
				ClientName:      clientName,
				ClientEmail:     clientEmail,
				PropertyAddress: property,
				InspectionDate:  date,
				Concurrency:     concurrency,
				Register:        register,
				Stdout:          cmd.OutOrStdout(),
				Logger:          ctx.ensureLogger(),
			})
			if err != nil {
				return err
			}

			// Partial runs still exit zero; callers inspect the artifact
			// listing below.
			errOut := cmd.ErrOrStderr()
			if res.Status == pipeline.StatusPartial {
				fmt.Fprintln(errOut, "Some artifacts failed to render:")
			}
			fmt.Fprintf(errOut, "PDF: %s  JSON: %s  HTML: %s\n",
				passFail(res.Artifacts.PDF), passFail(res.Artifacts.JSON), passFail(res.Artifacts.HTML))
			if res.Registration != nil {
				fmt.Fprintf(errOut, "Share URL: %s (expires %s)\n",
					res.Registration.ShareURL,
					res.Registration.ExpiresAt.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&clientName, "client", "", "Client name for the report")
	cmd.Flags().StringVar(&clientEmail, "email", "", "Client email for portal registration")
	cmd.Flags().StringVar(&property, "property", "", "Property address")
	cmd.Flags().StringVar(&date, "date", "", `Inspection date, e.g. "August 12, 2026" (default: earliest photo timestamp, then today)`)
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Concurrent analysis calls (default from config)")
	cmd.Flags().BoolVar(&register, "register", false, "Register the report in the client portal")
	return cmd
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fieldlens/internal/layout"
)

func newReportsCommand(ctx *commandContext) *cobra.Command {
	reportsCmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect generated reports",
	}
	reportsCmd.AddCommand(newReportsListCommand(ctx))
	return reportsCmd
}

func newReportsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reports under the outputs directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			entries, err := layout.ReadIndex(cfg.Paths.OutputsDir)
			if err != nil {
				return fmt.Errorf("read report index: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No reports found")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.ReportID,
					e.PropertyAddress,
					e.ClientName,
					e.InspectionDate,
					strconv.Itoa(e.PhotoCount),
					e.Dir,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"REPORT ID", "PROPERTY", "CLIENT", "DATE", "PHOTOS", "DIRECTORY"},
				rows, 5))
			return nil
		},
	}
}

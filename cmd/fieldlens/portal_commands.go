package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"fieldlens/internal/portal"
	"fieldlens/internal/report"
)

func newPortalCommand(ctx *commandContext) *cobra.Command {
	portalCmd := &cobra.Command{
		Use:   "portal",
		Short: "Client portal registration and tokens",
	}
	portalCmd.AddCommand(newPortalRegisterCommand(ctx))
	portalCmd.AddCommand(newPortalRevokeCommand(ctx))
	return portalCmd
}

func newPortalRegisterCommand(ctx *commandContext) *cobra.Command {
	var (
		clientName  string
		clientEmail string
		property    string
		ttlHours    int
	)

	cmd := &cobra.Command{
		Use:   "register <output-dir>",
		Short: "Register a generated report and mint a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			outputDir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve output dir: %w", err)
			}
			doc, err := report.ReadJSON(filepath.Join(outputDir, "report_data.json"))
			if err != nil {
				return fmt.Errorf("load report: %w", err)
			}
			if property != "" {
				doc.PropertyAddress = property
			}

			store, err := portal.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			reg, err := store.Register(cmd.Context(), doc, outputDir, portal.RegisterOptions{
				ClientName:  clientName,
				ClientEmail: clientEmail,
				TTL:         time.Duration(ttlHours) * time.Hour,
			})
			if err != nil {
				return fmt.Errorf("register report: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered report %s\n", doc.ReportID)
			fmt.Fprintf(out, "Share URL: %s\n", reg.ShareURL)
			fmt.Fprintf(out, "Expires: %s\n", reg.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&clientName, "client", "", "Client name (default: from the report)")
	cmd.Flags().StringVar(&clientEmail, "email", "", "Client email")
	cmd.Flags().StringVar(&property, "property", "", "Property address (default: from the report)")
	cmd.Flags().IntVar(&ttlHours, "ttl-hours", 0, "Token lifetime in hours (default from config)")
	return cmd
}

func newPortalRevokeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a share token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := portal.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.RevokeToken(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("revoke token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token revoked")
			return nil
		},
	}
}

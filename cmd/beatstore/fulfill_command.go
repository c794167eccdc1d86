package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"beatstore/internal/fulfillment"
	"beatstore/internal/mailer"
)

func newFulfillCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		productID string
		licenseID string
		email     string
		eventID   string
	)

	cmd := &cobra.Command{
		Use:   "fulfill",
		Short: "Run one fulfillment delivery by hand",
		Long: `Resolve, package, and email a delivery for a product and license as if a
purchase had completed, and record the sale on the ledger.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(productID) == "" || strings.TrimSpace(licenseID) == "" || strings.TrimSpace(email) == "" {
				return errors.New("--product, --license, and --email are required")
			}

			cfg, st, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			transport, err := mailer.NewTransport(cfg, logger)
			if err != nil {
				return err
			}

			pipeline := fulfillment.New(cfg, st, transport, logger)
			outcome, err := pipeline.Fulfill(cmd.Context(), fulfillment.Event{
				EventID:    strings.TrimSpace(eventID),
				ProductID:  productID,
				LicenseID:  licenseID,
				BuyerEmail: email,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outcome.AlreadyFulfilled {
				fmt.Fprintf(out, "Event already fulfilled as sale %s; nothing sent.\n", outcome.SaleID)
				return nil
			}
			fmt.Fprintf(out, "Delivered to %s:\n", email)
			for _, name := range outcome.Delivered {
				fmt.Fprintf(out, "  %s\n", name)
			}
			for _, warning := range outcome.Warnings {
				fmt.Fprintf(out, "warning: %s\n", warning)
			}
			if outcome.PreviewURL != "" {
				fmt.Fprintf(out, "Preview: %s\n", outcome.PreviewURL)
			}
			if outcome.SaleID != "" {
				fmt.Fprintf(out, "Sale recorded: %s\n", outcome.SaleID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&productID, "product", "", "Product id to deliver")
	cmd.Flags().StringVar(&licenseID, "license", "", "License tier id")
	cmd.Flags().StringVar(&email, "email", "", "Buyer email address")
	cmd.Flags().StringVar(&eventID, "event-id", "", "Upstream event id for deduplication")
	return cmd
}

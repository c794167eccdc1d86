package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newCatalogCommand(cmdCtx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and seed the beat catalog",
	}

	catalogCmd.AddCommand(newCatalogListCommand(cmdCtx))
	catalogCmd.AddCommand(newCatalogSeedCommand(cmdCtx))
	return catalogCmd
}

func newCatalogListCommand(cmdCtx *commandContext) *cobra.Command {
	var includeInactive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog beats",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			products, err := st.ListProducts(cmd.Context(), !includeInactive)
			if err != nil {
				return err
			}
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty. Run 'beatstore catalog seed' to load the starter catalog.")
				return nil
			}

			rows := make([][]string, 0, len(products))
			for _, product := range products {
				rows = append(rows, []string{
					product.ID,
					product.Title,
					strconv.Itoa(product.BPM),
					product.Key,
					strings.Join(product.Tags, ", "),
					product.Status,
					strconv.FormatInt(product.Sales, 10),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "BPM", "Key", "Tags", "Status", "Sales"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeInactive, "all", false, "Include inactive beats")
	return cmd
}

func newCatalogSeedCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the starter catalog into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Seed(cmd.Context()); err != nil {
				return err
			}

			products, err := st.ListProducts(cmd.Context(), false)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog holds %d beats.\n", len(products))
			return nil
		},
	}
}

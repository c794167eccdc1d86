package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

func formatMoney(amount float64) string {
	return moneyPrinter.Sprintf("$%.2f", amount)
}

func newSalesCommand(cmdCtx *commandContext) *cobra.Command {
	salesCmd := &cobra.Command{
		Use:   "sales",
		Short: "Inspect the sales ledger",
	}

	salesCmd.AddCommand(newSalesListCommand(cmdCtx))
	salesCmd.AddCommand(newSalesStatsCommand(cmdCtx))
	return salesCmd
}

func newSalesListCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger records, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			sales, err := st.ListSales(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(sales) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sales recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(sales))
			for _, sale := range sales {
				rows = append(rows, []string{
					sale.ID,
					sale.Date.Local().Format("2006-01-02 15:04"),
					sale.ProductTitle,
					sale.LicenseName,
					sale.Customer,
					formatMoney(sale.Amount),
					strings.Join(sale.FilesDelivered, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Sale", "Date", "Beat", "License", "Buyer", "Amount", "Delivered"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum records to show (0 for all)")
	return cmd
}

func newSalesStatsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize revenue and top sellers",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.SalesStats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total revenue: %s\n", formatMoney(stats.TotalRevenue))
			fmt.Fprintf(out, "Total sales:   %d\n", stats.TotalSales)
			fmt.Fprintf(out, "Active beats:  %d\n", stats.ActiveBeats)
			if len(stats.TopProducts) == 0 {
				return nil
			}

			fmt.Fprintln(out)
			rows := make([][]string, 0, len(stats.TopProducts))
			for _, top := range stats.TopProducts {
				rows = append(rows, []string{top.Title, strconv.Itoa(top.Count)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Beat", "Sales"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

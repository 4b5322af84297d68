package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var harvestDay string

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest one day of paper metadata into the ledger and database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayFlag(harvestDay)
		if err != nil {
			return err
		}
		svc, db, _, err := openService()
		if err != nil {
			return err
		}
		defer db.Close()
		defer svc.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		report, err := svc.HarvestDay(ctx, day)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	harvestCmd.Flags().StringVar(&harvestDay, "day", "", "submission day YYYY-MM-DD (default yesterday, GMT)")
	rootCmd.AddCommand(harvestCmd)
}

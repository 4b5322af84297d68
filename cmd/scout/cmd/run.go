package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runDay string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Harvest one day and extract figures for every paper in it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDayFlag(runDay)
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

		harvested, err := svc.HarvestDay(ctx, day)
		if err != nil {
			return err
		}
		extracted, err := svc.ExtractDay(ctx, day)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"harvest": harvested,
			"extract": extracted,
		})
	},
}

func init() {
	runCmd.Flags().StringVar(&runDay, "day", "", "submission day YYYY-MM-DD (default yesterday, GMT)")
	rootCmd.AddCommand(runCmd)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/scout/safepath"
)

var fetchOut string

var fetchCmd = &cobra.Command{
	Use:   "fetch <arxiv-id>",
	Short: "Download one e-print source archive to disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		svc, db, _, err := openService()
		if err != nil {
			return err
		}
		defer db.Close()
		defer svc.Close()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		data, err := svc.FetchSource(ctx, id)
		if err != nil {
			return err
		}

		out := fetchOut
		if out == "" {
			out = safepath.SanitizeID(id) + ".tar.gz"
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Printf("%s (%d bytes)\n", out, len(data))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOut, "output", "o", "", "output file (default <sanitized-id>.tar.gz)")
	rootCmd.AddCommand(fetchCmd)
}

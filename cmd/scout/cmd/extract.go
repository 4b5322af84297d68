package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	extractPublished string
	extractTitle     string
	extractArchive   string
)

var extractCmd = &cobra.Command{
	Use:   "extract <arxiv-id>",
	Short: "Extract the figures of one paper",
	Long: `Extract downloads the e-print source of a paper (or reads a local archive
given with --archive), reassembles its TeX document and saves the referenced
figures with captions under the output tree.

Without --published the paper must already be harvested; its publication date
and title are taken from the database.`,
	Args: cobra.ExactArgs(1),
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

		var report any
		switch {
		case extractArchive != "" && extractPublished == "":
			return fmt.Errorf("--archive requires --published")
		case extractArchive != "":
			report, err = svc.ExtractArchive(ctx, id, extractArchive, extractPublished, extractTitle)
		case extractPublished != "":
			report, err = svc.Extract(ctx, id, extractPublished, extractTitle)
		default:
			report, err = svc.ExtractPaper(ctx, id)
		}
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractPublished, "published", "", "publication date YYYY-MM-DD (default: from the harvested record)")
	extractCmd.Flags().StringVar(&extractTitle, "title", "", "paper title for the digest header")
	extractCmd.Flags().StringVar(&extractArchive, "archive", "", "local archive file to extract instead of downloading")
	rootCmd.AddCommand(extractCmd)
}

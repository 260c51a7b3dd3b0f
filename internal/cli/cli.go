// Package cli implements the phototriage command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"phototriage/internal/analyzer"
	"phototriage/internal/logger"
	"phototriage/internal/report"
	"phototriage/internal/service"
	"phototriage/internal/storage"
	"phototriage/internal/store"
	"phototriage/pkg/validation"
)

const version = "1.0.0"

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "phototriage",
		Short: "phototriage classifies batches of photos for common quality defects",
		Long: `phototriage analyzes photos for blur, poor exposure, low resolution and
near-duplicates, and exports a per-image report in CSV form.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newAnalyzeCmd() *cobra.Command {
	var (
		output  string
		workers int
		maxDim  int
		dbPath  string
	)

	cmd := &cobra.Command{
		Use:   "analyze <path>...",
		Short: "Analyze image files or directories and write a CSV report",
		Long: `Analyze the given image files (directories are walked recursively) and
write the per-image quality report to stdout or the file given with -o.
With --save the batch is also stored in the history database.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := storage.CollectFiles(args)
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				return fmt.Errorf("no images found under %v", args)
			}

			batch := service.NewBatchAnalyzer(
				analyzer.NewImageAnalyzer(maxDim),
				validation.NewFlagClassifier(),
				workers,
			)
			defer batch.Close()

			records, err := batch.AnalyzeBatch(cmd.Context(), sources)
			if err != nil {
				return err
			}

			if dbPath != "" {
				s, err := store.Open(dbPath)
				if err != nil {
					return err
				}
				defer s.Close()

				batchID, err := s.SaveBatch(cmd.Context(), records)
				if err != nil {
					return err
				}
				logger.WithFields(logrus.Fields{
					"batch_id": batchID,
					"db":       dbPath,
				}).Info("Batch saved")
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return report.WriteCSV(w, records)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the CSV report to this file instead of stdout")
	cmd.Flags().IntVar(&workers, "workers", 0, "per-image worker count (0 = one per CPU)")
	cmd.Flags().IntVar(&maxDim, "max-dimension", analyzer.DefaultMaxAnalysisDimension, "cap on the longer side of the analysis buffer")
	cmd.Flags().StringVar(&dbPath, "save", "", "save the batch into this SQLite history database")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List batches stored in the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			batches, err := s.ListBatches(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range batches {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d images\n", b.ID, b.CreatedAt, b.ImageCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "phototriage.db", "SQLite history database")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the phototriage version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "phototriage "+version)
		},
	}
}

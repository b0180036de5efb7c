package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentic-research/jsxprops/internal/ingest"
	"github.com/agentic-research/jsxprops/internal/store"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <source-dir> [output.db]",
		Short: "Extract every JSX file under a directory into a SQLite database",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(source)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
			}
			output := a.cfg.DB
			if len(args) == 2 {
				output = args[1]
			}

			_ = os.Remove(output) // Overwrite
			writer, err := store.NewWriter(output, a.logger)
			if err != nil {
				return err
			}

			engine := ingest.NewEngine(osfs.New(source), a.extractor())
			engine.Logger = a.logger
			if len(a.cfg.Extensions) > 0 {
				engine.Extensions = a.cfg.Extensions
			}
			if a.cfg.Workers > 0 {
				engine.Workers = a.cfg.Workers
			}

			start := time.Now()
			stats, err := engine.Run(cmd.Context(), ".", writer)
			if cerr := writer.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Built %s from %s: %d files, %d failed, %d skipped in %v.\n",
				output, args[0], stats.Files, stats.Failed, stats.Skipped, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().Int("workers", 0, "parallel extraction workers (default: GOMAXPROCS)")
	cmd.Flags().StringSlice("extensions", nil, "file extensions to extract (default .jsx,.js,.tsx)")
	return cmd
}

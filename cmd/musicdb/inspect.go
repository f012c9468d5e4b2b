package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tordrt/musicdb"
)

func (a *app) describeCmd() *cobra.Command {
	var (
		live       bool
		format     string
		outputFile string
		outputDir  string
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Render the declared model, or the live schema, as text or markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outputDir != "" && outputFile != "" {
				return fmt.Errorf("cannot use both --output-dir and --output flags")
			}

			out := &musicdb.OutputOptions{Format: format, OutputDir: outputDir, Writer: cmd.OutOrStdout()}
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
					}
				}()
				out.Writer = f
			}

			if !live {
				return musicdb.DescribeModel(out)
			}

			ctx := cmd.Context()
			mdb, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeDB(mdb)

			return mdb.Describe(ctx, out)
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Describe the tables found in the database instead of the declared model")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or markdown")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the live tables match the declared model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mdb, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeDB(mdb)

			mismatches, err := mdb.Verify(ctx)
			printMismatches(cmd.OutOrStdout(), mismatches)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "schema matches")
			return nil
		},
	}
}

func printMismatches(w io.Writer, mismatches []musicdb.Mismatch) {
	for _, m := range mismatches {
		_, _ = fmt.Fprintln(w, m.String())
	}
}

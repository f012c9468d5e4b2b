package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tordrt/musicdb"
)

func (a *app) exportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every row as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			mdb, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeDB(mdb)

			ds, err := mdb.Export(ctx)
			if err != nil {
				return err
			}

			writer := cmd.OutOrStdout()
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
				writer = f
			}

			if err := writeDataset(writer, ds); err != nil {
				return err
			}
			a.logger.InfoContext(ctx, "exported", "artists", len(ds.Artists), "songs", len(ds.Songs), "ratings", len(ds.Ratings))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load rows from a JSON export into an empty schema",
		Long:  "Load rows from a JSON export into an empty schema. Use - to read standard input.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ds, err := readDatasetFile(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			mdb, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeDB(mdb)

			if create {
				if err := mdb.CreateSchema(ctx); err != nil {
					return err
				}
			}
			if err := mdb.Import(ctx, ds); err != nil {
				return err
			}
			a.logger.InfoContext(ctx, "imported", "artists", len(ds.Artists), "songs", len(ds.Songs), "ratings", len(ds.Ratings))
			return nil
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "Create the schema before importing")
	return cmd
}

func writeDataset(w io.Writer, ds *musicdb.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return nil
}

func readDataset(r io.Reader) (*musicdb.Dataset, error) {
	var ds musicdb.Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return &ds, nil
}

func readDatasetFile(stdin io.Reader, path string) (*musicdb.Dataset, error) {
	if path == "-" {
		return readDataset(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readDataset(f)
}

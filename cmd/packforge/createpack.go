package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/packforge/internal/pack"
)

var createPackOpts struct {
	keywordsPath string
}

var createPackCmd = &cobra.Command{
	Use:   "create-pack <packId> <version> <soundsDir>",
	Short: "Assemble a pack from a directory of normalized sounds",
	Long: `Build a pack manifest from the normalized audio files in soundsDir and
copy the files into the pack's sounds/ directory.

For every event the first keyword that matches a file name wins; without
a match the lexicographically first file is used; with no files at all
the event is omitted from the manifest.

Examples:
  packforge create-pack ocean-calm 1.0.0 ./normalized

  # Use a custom event keyword table
  packforge create-pack ocean-calm 1.0.0 ./normalized --keywords events.yaml`,
	Args: cobra.ExactArgs(3),
	RunE: runCreatePack,
}

func init() {
	rootCmd.AddCommand(createPackCmd)

	createPackCmd.Flags().StringVar(&createPackOpts.keywordsPath, "keywords", "",
		"Path to a YAML event keyword table (default: built-in table)")
}

func runCreatePack(cmd *cobra.Command, args []string) error {
	table := pack.DefaultKeywordTable()
	if createPackOpts.keywordsPath != "" {
		var err error
		table, err = pack.LoadKeywordTable(createPackOpts.keywordsPath)
		if err != nil {
			return err
		}
	}

	assembler := pack.NewAssembler(table, cfg.Pack.Author, cfg.Pack.Description, logger)
	manifest, err := assembler.Assemble(args[0], args[1], args[2], cfg.Pack.OutputRoot)
	if err != nil {
		return err
	}

	return printManifest(manifest)
}

// printManifest writes an indented manifest to stdout.
func printManifest(m any) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/packforge/internal/curator"
	"github.com/jmylchreest/packforge/internal/pack"
)

var curateCmd = &cobra.Command{
	Use:   "curate <provider> <packId> <query>",
	Short: "Run the full curation pipeline",
	Long: `Run the full pipeline for one pack: search the provider, download
every candidate, normalize the audio, and assemble the pack.

Downloads and conversions that fail are logged and skipped; the run
succeeds with whatever survived. The ephemeral working directory is
removed when the run finishes, on success or failure.

Examples:
  packforge curate pixabay ocean-calm "soft bell"
  packforge curate freesound desk-bells chime`,
	Args: cobra.ExactArgs(3),
	RunE: runCurate,
}

func init() {
	rootCmd.AddCommand(curateCmd)
}

func runCurate(cmd *cobra.Command, args []string) error {
	p, err := newProvider(args[0])
	if err != nil {
		return err
	}

	assembler := pack.NewAssembler(pack.DefaultKeywordTable(), cfg.Pack.Author, cfg.Pack.Description, logger)
	c := curator.New(p, newTranscoder(), assembler, cfg.Pack.OutputRoot, logger)

	manifest, err := c.Curate(cmd.Context(), args[1], args[2])
	if err != nil {
		return err
	}

	return printManifest(manifest)
}

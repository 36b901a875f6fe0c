package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <provider> <id> [outputDir]",
	Short: "Download one sound by id",
	Long: `Download the audio for one sound id and print the written path.

The highest-fidelity URL the provider offers is used: the full-quality
download when available, otherwise the preview stream.

Examples:
  packforge download pixabay 101
  packforge download freesound 201 ./downloads`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	p, err := newProvider(args[0])
	if err != nil {
		return err
	}

	outputDir := "."
	if len(args) == 3 {
		outputDir = args[2]
	}

	file, err := p.Fetch(cmd.Context(), args[1], outputDir)
	if err != nil {
		return err
	}

	fmt.Println(file.Path)
	return nil
}

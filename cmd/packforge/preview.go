package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/packforge/internal/audio"
)

var previewOpts struct {
	volume float64
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Play an audio clip through the speakers",
	Long: `Decode and play a downloaded clip so it can be auditioned before
being committed to a pack. Supports WAV, OGG, and MP3.

Examples:
  packforge preview ./downloads/101.mp3
  packforge preview ./downloads/201.ogg --volume 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().Float64Var(&previewOpts.volume, "volume", 1.0,
		"Playback volume (0.0 to 1.0)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	player := audio.NewPlayer(logger)
	player.SetVolume(previewOpts.volume)
	return player.Play(args[0])
}

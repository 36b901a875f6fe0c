package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/packforge/internal/config"
	"github.com/jmylchreest/packforge/internal/provider"
)

var queryOpts struct {
	limit int
}

var queryCmd = &cobra.Command{
	Use:   "query <provider> <text>",
	Short: "Search a provider for sound candidates",
	Long: `Search an audio-clip provider and print one JSON candidate per line.

Providers: ` + strings.Join(provider.Names(), ", ") + `

Examples:
  # Search pixabay for bell sounds
  packforge query pixabay "notification bell"

  # Search freesound (requires FREESOUND_API_KEY) for 5 results
  packforge query freesound chime --limit 5`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().IntVarP(&queryOpts.limit, "limit", "n", config.DefaultSearchLimit,
		"Maximum number of candidates to return")
}

func runQuery(cmd *cobra.Command, args []string) error {
	p, err := newProvider(args[0])
	if err != nil {
		return err
	}

	candidates, err := p.Search(cmd.Context(), args[1], queryOpts.limit)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		logger.Info("no results found", "provider", p.Name(), "query", args[1])
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	for _, c := range candidates {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}

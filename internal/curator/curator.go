// Package curator composes the full curation pipeline: search a
// provider, download every candidate, normalize the audio, and assemble
// the resulting pack.
package curator

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/packforge/internal/model"
	"github.com/jmylchreest/packforge/internal/pack"
	"github.com/jmylchreest/packforge/internal/provider"
)

// SearchLimit is the fixed number of candidates requested per curation
// run.
const SearchLimit = 10

// DefaultPackVersion is the version stamped on curated packs.
const DefaultPackVersion = "1.0.0"

// Normalizer converts a directory of downloaded audio into the
// canonical format.
type Normalizer interface {
	NormalizeDir(ctx context.Context, inputDir, outputDir string) ([]string, error)
}

// Curator runs the pipeline end to end. The pipeline is strictly
// sequential: one provider, one request at a time, no retries.
type Curator struct {
	provider   provider.Provider
	normalizer Normalizer
	assembler  *pack.Assembler
	outputRoot string
	logger     *slog.Logger

	// WorkRoot is where ephemeral run directories are created.
	// Empty means the system temp directory.
	WorkRoot string
}

// New creates a Curator writing packs under outputRoot.
func New(p provider.Provider, n Normalizer, a *pack.Assembler, outputRoot string, logger *slog.Logger) *Curator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Curator{
		provider:   p,
		normalizer: n,
		assembler:  a,
		outputRoot: outputRoot,
		logger:     logger,
	}
}

// Curate runs search -> fetch -> normalize -> assemble for one pack.
// Per-candidate download and transcode failures are logged and skipped;
// partial success is the expected steady state. The ephemeral working
// directory is removed on every exit path.
func (c *Curator) Curate(ctx context.Context, packID, query string) (*model.PackManifest, error) {
	runID := newRunID()
	workDir, err := os.MkdirTemp(c.WorkRoot, "packforge-"+runID+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			c.logger.Warn("failed to remove working directory", "dir", workDir, "error", err)
		}
	}()

	c.logger.Info("curation run started",
		"run_id", runID,
		"provider", c.provider.Name(),
		"pack", packID,
		"query", query)

	downloadDir := filepath.Join(workDir, "downloads")
	normalizedDir := filepath.Join(workDir, "normalized")
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	candidates, err := c.provider.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, err
	}
	c.logger.Info("search complete", "run_id", runID, "candidates", len(candidates))

	downloaded := 0
	for _, cand := range candidates {
		if _, err := c.provider.Fetch(ctx, cand.ID, downloadDir); err != nil {
			c.logger.Warn("download failed, skipping candidate",
				"run_id", runID, "id", cand.ID, "error", err)
			continue
		}
		downloaded++
	}

	outputs, err := c.normalizer.NormalizeDir(ctx, downloadDir, normalizedDir)
	if err != nil {
		return nil, err
	}
	c.logger.Info("normalization complete",
		"run_id", runID, "downloaded", downloaded, "normalized", len(outputs))

	manifest, err := c.assembler.Assemble(packID, DefaultPackVersion, normalizedDir, c.outputRoot)
	if err != nil {
		return nil, err
	}

	c.logger.Info("curation run finished", "run_id", runID, "pack", packID)
	return manifest, nil
}

// newRunID returns a ULID for correlating a run's log lines and naming
// its working directory.
func newRunID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return id.String()
}

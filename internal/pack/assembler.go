package pack

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/packforge/internal/model"
)

// ManifestFileName is the manifest file written into every pack.
const ManifestFileName = "pack.json"

// SoundsDirName is the pack subdirectory holding the audio files.
const SoundsDirName = "sounds"

// Assembler selects one sound file per event and writes pack
// directories. It holds the keyword table and the manifest defaults;
// both are injected so assembly stays testable with fixed policies.
type Assembler struct {
	table       EventKeywordTable
	author      string
	description string
	logger      *slog.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(table EventKeywordTable, author, description string, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		table:       table,
		author:      author,
		description: description,
		logger:      logger,
	}
}

// Assemble builds a pack under outputRoot/<packID> from the normalized
// files in soundsDir. For each event the first keyword that matches a
// file name wins; with no match the lexicographically first file is
// used; with no files at all the event is omitted. Every file in
// soundsDir is copied into the pack, not only the selected ones.
// Re-running overwrites the manifest and re-copies files.
func (a *Assembler) Assemble(packID, version, soundsDir, outputRoot string) (*model.PackManifest, error) {
	files, err := listSounds(soundsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list sounds: %w", err)
	}

	events := make(map[string]string)
	for _, ek := range a.table.Events {
		file, matched := matchKeywords(ek.Keywords, files)
		if !matched {
			if len(files) == 0 {
				a.logger.Warn("no sound available for event", "event", ek.Event)
				continue
			}
			file = files[0]
			a.logger.Info("no keyword match, using fallback", "event", ek.Event, "file", file)
		}
		events[ek.Event] = file
	}

	manifest := &model.PackManifest{
		ID:          packID,
		Name:        DisplayName(packID),
		Description: a.description,
		Author:      a.author,
		Version:     version,
		Events:      events,
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	packDir := filepath.Join(outputRoot, packID)
	packSounds := filepath.Join(packDir, SoundsDirName)
	if err := os.MkdirAll(packSounds, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pack directory: %w", err)
	}

	for _, file := range files {
		if err := copyFile(filepath.Join(soundsDir, file), filepath.Join(packSounds, file)); err != nil {
			return nil, fmt.Errorf("failed to copy %s: %w", file, err)
		}
	}

	if err := writeManifest(manifest, filepath.Join(packDir, ManifestFileName)); err != nil {
		return nil, err
	}

	a.logger.Info("pack assembled", "pack", packID, "events", len(events), "sounds", len(files))
	return manifest, nil
}

// matchKeywords returns the first file containing the first matching
// keyword. Keyword order wins over file order; matching is
// case-sensitive substring on the file name.
func matchKeywords(keywords, files []string) (string, bool) {
	for _, kw := range keywords {
		for _, file := range files {
			if strings.Contains(file, kw) {
				return file, true
			}
		}
	}
	return "", false
}

// listSounds returns the regular files in dir in lexicographic order.
// A missing directory is an empty pack source, not an error.
func listSounds(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	// os.ReadDir sorts by name, which keeps selection deterministic.
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, entry.Name())
	}
	return files, nil
}

// DisplayName derives a human-readable pack name from its id:
// hyphens become spaces and each word is capitalized.
func DisplayName(packID string) string {
	words := strings.Split(packID, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func writeManifest(m *model.PackManifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

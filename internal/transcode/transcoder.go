// Package transcode normalizes audio files to one canonical uncompressed
// format by invoking an external ffmpeg binary.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Normalized output: AIFF container, 16-bit big-endian PCM samples.
const (
	OutputCodec     = "pcm_s16be"
	OutputExtension = ".aiff"
)

// ErrTranscodeFailed means the external encoder exited non-zero or
// produced no output file.
var ErrTranscodeFailed = errors.New("transcode failed")

// supportedExtensions lists the input formats handed to ffmpeg. Anything
// else found in a directory walk is ignored.
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".ogg":  true,
	".wav":  true,
	".flac": true,
	".m4a":  true,
	".aac":  true,
	".aiff": true,
	".aif":  true,
}

// Supported reports whether path has a recognized audio extension.
func Supported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// OutputName maps an input file name to its normalized file name.
func OutputName(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + OutputExtension
}

// Transcoder wraps the external ffmpeg binary.
type Transcoder struct {
	ffmpegPath string
	logger     *slog.Logger
}

// New creates a Transcoder. ffmpegPath may be a bare binary name
// resolved via PATH or an absolute path.
func New(ffmpegPath string, logger *slog.Logger) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transcoder{ffmpegPath: ffmpegPath, logger: logger}
}

// BuildArgs builds the ffmpeg argument list for one conversion.
func (t *Transcoder) BuildArgs(inputPath, outputPath string) []string {
	return []string{
		"-y", // Overwrite output file
		"-i", inputPath,
		"-acodec", OutputCodec,
		outputPath,
	}
}

// Normalize converts inputPath to the canonical format at outputPath.
// Returns ErrTranscodeFailed (wrapped) when the encoder exits non-zero
// or leaves no output behind.
func (t *Transcoder) Normalize(ctx context.Context, inputPath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrTranscodeFailed, err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.ffmpegPath, t.BuildArgs(inputPath, outputPath)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(outputPath)
		return fmt.Errorf("%w: %v: %s", ErrTranscodeFailed, err, lastLine(stderr.String()))
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("%w: encoder produced no output for %s", ErrTranscodeFailed, inputPath)
	}

	t.logger.Info("normalized", "input", inputPath, "output", outputPath)
	return nil
}

// NormalizeDir converts every supported audio file found recursively
// under inputDir into outputDir. A failed conversion is logged and
// skipped; it never aborts the batch. Returns the paths of the files
// that were written.
func (t *Transcoder) NormalizeDir(ctx context.Context, inputDir, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	var outputs []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}

		out := filepath.Join(outputDir, OutputName(path))
		if err := t.Normalize(ctx, path, out); err != nil {
			t.logger.Warn("skipping file", "input", path, "error", err)
			return nil
		}
		outputs = append(outputs, out)
		return nil
	})
	if err != nil {
		return outputs, err
	}
	return outputs, nil
}

// lastLine extracts the final non-empty line of encoder output, which is
// where ffmpeg puts its actual error message.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

// Package audio provides clip playback for auditioning candidate sounds
// before they are committed to a pack.
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Player plays audio clips through the default output device.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	// Volume control (0.0 to 1.0)
	volume float64

	// Whether speaker has been initialized
	initialized bool

	// Sample rate for the speaker
	sampleRate beep.SampleRate
}

// NewPlayer creates a new audio player.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}

	return &Player{
		logger:     logger,
		volume:     1.0,
		sampleRate: beep.SampleRate(44100),
	}
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	p.volume = volume
}

// Play decodes and plays a sound file, blocking until playback ends.
// Supports WAV, OGG, and MP3 formats.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}

	// Expand path
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(path))

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return fmt.Errorf("unsupported audio format: %s", ext)
	}

	if err != nil {
		return fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	if err := p.ensureInitialized(format.SampleRate); err != nil {
		return err
	}

	p.mu.Lock()
	volume := p.volume
	sampleRate := p.sampleRate
	p.mu.Unlock()

	var stream beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		stream = beep.Resample(4, format.SampleRate, sampleRate, stream)
	}
	if volume < 1.0 {
		stream = &effects.Volume{
			Streamer: stream,
			Base:     2,
			Volume:   volumeToDecibels(volume),
			Silent:   volume == 0,
		}
	}

	p.logger.Debug("playing clip", "path", path)

	done := make(chan struct{})
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		close(done)
	})))
	<-done

	return nil
}

// ensureInitialized initializes the speaker if not already done.
func (p *Player) ensureInitialized(sampleRate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	// Use a reasonable buffer size for low latency
	bufferSize := sampleRate.N(time.Millisecond * 100)

	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	p.sampleRate = sampleRate
	p.initialized = true
	return nil
}

// volumeToDecibels converts a linear 0..1 volume to the exponent used
// by the base-2 volume effect.
func volumeToDecibels(volume float64) float64 {
	if volume <= 0 {
		return -10
	}
	return math.Log2(volume)
}

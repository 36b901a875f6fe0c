// Package model defines the core data structures for packforge.
package model

import "errors"

// ProviderName identifies an audio-clip provider.
type ProviderName string

// Known providers.
const (
	ProviderPixabay   ProviderName = "pixabay"
	ProviderFreesound ProviderName = "freesound"
)

// DurationUnknown is the duration value used when a provider does not
// report one.
const DurationUnknown = "unknown"

// SoundCandidate is one normalized search result from a provider.
// It is immutable once produced and consumed at most once to drive a
// download. IDs are unique within one provider's response, not globally.
type SoundCandidate struct {
	ID         string       `json:"id"`
	Provider   ProviderName `json:"provider"`
	Title      string       `json:"title"`
	SourceURL  string       `json:"source_url"`
	AudioURL   string       `json:"audio_url,omitempty"`
	PreviewURL string       `json:"preview_url,omitempty"`
	Duration   string       `json:"duration"`
	License    string       `json:"license"`
}

// BestURL returns the highest-fidelity audio URL the candidate carries:
// the full-quality audio URL when present, otherwise the preview stream.
// Empty when the candidate has no usable URL at all.
func (c SoundCandidate) BestURL() string {
	if c.AudioURL != "" {
		return c.AudioURL
	}
	return c.PreviewURL
}

// Downloadable reports whether the candidate has any URL worth fetching.
func (c SoundCandidate) Downloadable() bool {
	return c.BestURL() != ""
}

// DownloadedFile is a fetched audio file on local disk.
type DownloadedFile struct {
	// Path is the absolute or working-relative location of the file.
	Path string `json:"path"`
	// Ext is the inferred format extension without the leading dot,
	// e.g. "mp3".
	Ext string `json:"ext"`
}

// PackManifest is the durable artifact of a curation run. Events maps
// logical event names to file names under the pack's sounds/ directory.
type PackManifest struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Author      string            `json:"author"`
	Version     string            `json:"version"`
	Events      map[string]string `json:"events"`
}

// Validation errors.
var (
	ErrEmptyPackID   = errors.New("pack id cannot be empty")
	ErrEmptyVersion  = errors.New("pack version cannot be empty")
	ErrEmptyEventRef = errors.New("event cannot map to an empty file name")
)

// Validate checks manifest invariants before it is written.
func (m *PackManifest) Validate() error {
	if m.ID == "" {
		return ErrEmptyPackID
	}
	if m.Version == "" {
		return ErrEmptyVersion
	}
	for _, file := range m.Events {
		if file == "" {
			return ErrEmptyEventRef
		}
	}
	return nil
}

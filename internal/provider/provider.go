// Package provider implements adapters for external audio-clip services.
//
// Each adapter normalizes a service's search API into SoundCandidate
// values and can fetch the audio for one candidate to local disk. All
// outbound requests pass through a shared fixed-delay rate limiter.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/packforge/internal/config"
	"github.com/jmylchreest/packforge/internal/model"
)

// Failure classes shared by all adapters.
var (
	// ErrProviderUnavailable means the transport call returned no usable
	// body. A zero-result response is not this error.
	ErrProviderUnavailable = errors.New("provider returned no response")

	// ErrMissingCredential means a required API key is absent from the
	// environment.
	ErrMissingCredential = errors.New("required API credential is not set")

	// ErrDownloadFailed means no audio URL could be resolved or the
	// transfer did not produce a file on disk.
	ErrDownloadFailed = errors.New("download produced no file")

	// ErrUnknownProvider is returned for provider names outside the
	// registry.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Provider adapts one external audio-clip service.
type Provider interface {
	// Name returns the provider's registry name.
	Name() model.ProviderName

	// Search returns up to limit normalized candidates for a free-text
	// query. Zero results is a valid empty slice, not an error.
	Search(ctx context.Context, query string, limit int) ([]model.SoundCandidate, error)

	// Fetch resolves the best audio URL for the given sound id and
	// downloads it to destDir/<id>.<ext>.
	Fetch(ctx context.Context, id string, destDir string) (model.DownloadedFile, error)
}

// Options carries the collaborators injected into every adapter.
type Options struct {
	// Client is the HTTP client; defaults to http.DefaultClient so the
	// transport's own timeout behavior applies.
	Client *http.Client

	// Credentials are the environment-sourced API keys.
	Credentials config.Credentials

	// Limiter throttles outbound requests. Required.
	Limiter *Limiter

	Logger *slog.Logger

	// BaseURL overrides the provider's API endpoint (tests).
	BaseURL string
}

func (o *Options) defaults(base string) {
	if o.Client == nil {
		o.Client = http.DefaultClient
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.BaseURL == "" {
		o.BaseURL = base
	}
}

// New returns the adapter registered under name.
func New(name string, opts Options) (Provider, error) {
	switch model.ProviderName(name) {
	case model.ProviderPixabay:
		return NewPixabay(opts), nil
	case model.ProviderFreesound:
		return NewFreesound(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
}

// Names lists the registered provider names.
func Names() []string {
	return []string{string(model.ProviderPixabay), string(model.ProviderFreesound)}
}

// download transfers rawURL to destDir/<id>.<ext>, inferring the
// extension from the URL path. The caller must have throttled already.
func download(ctx context.Context, client *http.Client, logger *slog.Logger, rawURL, id, destDir string, header http.Header) (model.DownloadedFile, error) {
	if rawURL == "" {
		return model.DownloadedFile{}, fmt.Errorf("%w: no resolvable audio url for %s", ErrDownloadFailed, id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.DownloadedFile{}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return model.DownloadedFile{}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.DownloadedFile{}, fmt.Errorf("%w: status %d for %s", ErrDownloadFailed, resp.StatusCode, id)
	}

	ext := extFromURL(rawURL)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return model.DownloadedFile{}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	dest := filepath.Join(destDir, id+"."+ext)
	f, err := os.Create(dest)
	if err != nil {
		return model.DownloadedFile{}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	n, err := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(dest)
		return model.DownloadedFile{}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if closeErr != nil {
		_ = os.Remove(dest)
		return model.DownloadedFile{}, fmt.Errorf("%w: %v", ErrDownloadFailed, closeErr)
	}

	if _, err := os.Stat(dest); err != nil {
		return model.DownloadedFile{}, fmt.Errorf("%w: %s missing after transfer", ErrDownloadFailed, dest)
	}

	logger.Info("downloaded", "id", id, "path", dest, "size", humanize.Bytes(uint64(n)))
	return model.DownloadedFile{Path: dest, Ext: ext}, nil
}

// extFromURL infers a file extension from the URL path, defaulting to
// mp3 when the path carries none.
func extFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "mp3"
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" {
		return "mp3"
	}
	return strings.ToLower(ext)
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jmylchreest/packforge/internal/model"
)

const defaultFreesoundBaseURL = "https://freesound.org/apiv2"

// Fields requested from the Freesound API on every call.
const freesoundFields = "id,name,url,license,duration,previews,download"

// Preview quality keys, tried in order.
var freesoundPreviewKeys = []string{"preview-hq-mp3", "preview-lq-mp3"}

// Freesound is the credentialed adapter. Search requires an API token;
// full-quality downloads additionally require an OAuth token, and the
// adapter falls back to the MP3 preview stream without one.
type Freesound struct {
	opts Options
}

// NewFreesound creates a Freesound adapter.
func NewFreesound(opts Options) *Freesound {
	opts.defaults(defaultFreesoundBaseURL)
	return &Freesound{opts: opts}
}

// Name implements Provider.
func (f *Freesound) Name() model.ProviderName { return model.ProviderFreesound }

// freesoundSound mirrors the response fields we read.
type freesoundSound struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	URL      string            `json:"url"`
	License  string            `json:"license"`
	Duration float64           `json:"duration"`
	Previews map[string]string `json:"previews"`
	Download string            `json:"download"`
}

type freesoundSearchResponse struct {
	Count   int              `json:"count"`
	Results []freesoundSound `json:"results"`
}

// Search implements Provider.
func (f *Freesound) Search(ctx context.Context, query string, limit int) ([]model.SoundCandidate, error) {
	if f.opts.Credentials.FreesoundKey == "" {
		return nil, fmt.Errorf("%w: FREESOUND_API_KEY", ErrMissingCredential)
	}
	if err := f.opts.Limiter.Throttle(ctx, string(f.Name())); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("page_size", strconv.Itoa(limit))
	q.Set("fields", freesoundFields)
	q.Set("token", f.opts.Credentials.FreesoundKey)

	body, err := f.get(ctx, f.opts.BaseURL+"/search/text/?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp freesoundSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	candidates := make([]model.SoundCandidate, 0, len(resp.Results))
	for _, s := range resp.Results {
		c := f.candidate(s)
		if c.PreviewURL == "" {
			// No preview under either quality key means nothing is
			// guaranteed fetchable; drop the record.
			f.opts.Logger.Debug("dropping sound without preview", "provider", f.Name(), "id", c.ID)
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// Fetch implements Provider. Prefers the full-quality authenticated
// download when an OAuth token is configured, otherwise fetches the
// preview stream.
func (f *Freesound) Fetch(ctx context.Context, id string, destDir string) (model.DownloadedFile, error) {
	if f.opts.Credentials.FreesoundKey == "" {
		return model.DownloadedFile{}, fmt.Errorf("%w: FREESOUND_API_KEY", ErrMissingCredential)
	}
	if err := f.opts.Limiter.Throttle(ctx, string(f.Name())); err != nil {
		return model.DownloadedFile{}, err
	}

	q := url.Values{}
	q.Set("fields", freesoundFields)
	q.Set("token", f.opts.Credentials.FreesoundKey)

	body, err := f.get(ctx, f.opts.BaseURL+"/sounds/"+url.PathEscape(id)+"/?"+q.Encode())
	if err != nil {
		return model.DownloadedFile{}, err
	}

	var s freesoundSound
	if err := json.Unmarshal(body, &s); err != nil {
		return model.DownloadedFile{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	audioURL, header := f.resolve(s)
	if err := f.opts.Limiter.Throttle(ctx, string(f.Name())); err != nil {
		return model.DownloadedFile{}, err
	}
	return download(ctx, f.opts.Client, f.opts.Logger, audioURL, id, destDir, header)
}

// resolve picks the download URL and any authorization it needs.
func (f *Freesound) resolve(s freesoundSound) (string, http.Header) {
	if f.opts.Credentials.FreesoundOAuth != "" && s.Download != "" {
		header := http.Header{}
		header.Set("Authorization", "Bearer "+f.opts.Credentials.FreesoundOAuth)
		return s.Download, header
	}
	for _, key := range freesoundPreviewKeys {
		if preview := s.Previews[key]; preview != "" {
			return preview, nil
		}
	}
	return "", nil
}

func (f *Freesound) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := f.opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body from %s", ErrProviderUnavailable, f.Name())
	}
	if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: freesound rejected the API token", ErrMissingCredential)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrProviderUnavailable, httpResp.StatusCode, f.Name())
	}
	return body, nil
}

func (f *Freesound) candidate(s freesoundSound) model.SoundCandidate {
	duration := model.DurationUnknown
	if s.Duration > 0 {
		duration = strconv.FormatFloat(s.Duration, 'f', -1, 64)
	}

	c := model.SoundCandidate{
		ID:        strconv.FormatInt(s.ID, 10),
		Provider:  model.ProviderFreesound,
		Title:     s.Name,
		SourceURL: s.URL,
		Duration:  duration,
		License:   s.License,
	}
	for _, key := range freesoundPreviewKeys {
		if preview := s.Previews[key]; preview != "" {
			c.PreviewURL = preview
			break
		}
	}
	// The download URL only resolves with an OAuth bearer token.
	if f.opts.Credentials.FreesoundOAuth != "" {
		c.AudioURL = s.Download
	}
	return c
}

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

const defaultPixabayBaseURL = "https://pixabay.com/api"

// Pixabay is the no-credential adapter: free-tier search needs no key
// and hits carry a direct download URL. A configured key is passed
// along when present but never required.
type Pixabay struct {
	opts Options
}

// NewPixabay creates a Pixabay adapter.
func NewPixabay(opts Options) *Pixabay {
	opts.defaults(defaultPixabayBaseURL)
	return &Pixabay{opts: opts}
}

// Name implements Provider.
func (p *Pixabay) Name() model.ProviderName { return model.ProviderPixabay }

// pixabayHit mirrors the response fields we read.
type pixabayHit struct {
	ID       int64  `json:"id"`
	PageURL  string `json:"pageURL"`
	Tags     string `json:"tags"`
	Duration int    `json:"duration"`
	Audio    string `json:"audio_url"`
	Preview  string `json:"previewURL"`
}

type pixabayResponse struct {
	TotalHits int          `json:"totalHits"`
	Hits      []pixabayHit `json:"hits"`
}

// Search implements Provider.
func (p *Pixabay) Search(ctx context.Context, query string, limit int) ([]model.SoundCandidate, error) {
	if err := p.opts.Limiter.Throttle(ctx, string(p.Name())); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", strconv.Itoa(limit))
	if p.opts.Credentials.PixabayKey != "" {
		q.Set("key", p.opts.Credentials.PixabayKey)
	}

	resp, err := p.get(ctx, p.opts.BaseURL+"/?"+q.Encode())
	if err != nil {
		return nil, err
	}

	candidates := make([]model.SoundCandidate, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		c := p.candidate(hit)
		if !c.Downloadable() {
			p.opts.Logger.Debug("dropping hit without audio url", "provider", p.Name(), "id", c.ID)
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// Fetch implements Provider. The hit is looked up by id first so fetch
// works standalone, without a preceding search in the same process.
func (p *Pixabay) Fetch(ctx context.Context, id string, destDir string) (model.DownloadedFile, error) {
	if err := p.opts.Limiter.Throttle(ctx, string(p.Name())); err != nil {
		return model.DownloadedFile{}, err
	}

	q := url.Values{}
	q.Set("id", id)
	if p.opts.Credentials.PixabayKey != "" {
		q.Set("key", p.opts.Credentials.PixabayKey)
	}

	resp, err := p.get(ctx, p.opts.BaseURL+"/?"+q.Encode())
	if err != nil {
		return model.DownloadedFile{}, err
	}
	if len(resp.Hits) == 0 {
		return model.DownloadedFile{}, fmt.Errorf("%w: no such sound %s", ErrDownloadFailed, id)
	}

	c := p.candidate(resp.Hits[0])
	if err := p.opts.Limiter.Throttle(ctx, string(p.Name())); err != nil {
		return model.DownloadedFile{}, err
	}
	return download(ctx, p.opts.Client, p.opts.Logger, c.BestURL(), id, destDir, nil)
}

// get issues a search-API request and decodes the response.
func (p *Pixabay) get(ctx context.Context, rawURL string) (*pixabayResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := p.opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body from %s", ErrProviderUnavailable, p.Name())
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrProviderUnavailable, httpResp.StatusCode, p.Name())
	}

	var resp pixabayResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return &resp, nil
}

func (p *Pixabay) candidate(hit pixabayHit) model.SoundCandidate {
	duration := model.DurationUnknown
	if hit.Duration > 0 {
		duration = strconv.Itoa(hit.Duration)
	}
	return model.SoundCandidate{
		ID:         strconv.FormatInt(hit.ID, 10),
		Provider:   model.ProviderPixabay,
		Title:      hit.Tags,
		SourceURL:  hit.PageURL,
		AudioURL:   hit.Audio,
		PreviewURL: hit.Preview,
		Duration:   duration,
		License:    "Pixabay Content License",
	}
}

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/packforge/internal/config"
	"github.com/jmylchreest/packforge/internal/model"
)

func testLimiter() *Limiter {
	return NewLimiter(map[string]config.RateLimitConfig{
		"pixabay":   {MaxRequests: 3600, IntervalSeconds: 1},
		"freesound": {MaxRequests: 3600, IntervalSeconds: 1},
	})
}

func TestPixabay_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bell", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{
			"totalHits": 3,
			"hits": [
				{"id": 101, "pageURL": "https://pixabay.com/sound-effects/101/", "tags": "bell, chime", "duration": 4, "audio_url": "https://cdn.pixabay.com/audio/101.mp3"},
				{"id": 102, "pageURL": "https://pixabay.com/sound-effects/102/", "tags": "gong", "previewURL": "https://cdn.pixabay.com/audio/102-preview.mp3"},
				{"id": 103, "pageURL": "https://pixabay.com/sound-effects/103/", "tags": "silent"}
			]
		}`))
	}))
	defer server.Close()

	p := NewPixabay(Options{Limiter: testLimiter(), BaseURL: server.URL})
	candidates, err := p.Search(context.Background(), "bell", 10)
	require.NoError(t, err)

	// Hit 103 has no audio or preview URL and must be dropped.
	require.Len(t, candidates, 2)
	assert.Equal(t, "101", candidates[0].ID)
	assert.Equal(t, model.ProviderPixabay, candidates[0].Provider)
	assert.Equal(t, "4", candidates[0].Duration)
	assert.Equal(t, "https://cdn.pixabay.com/audio/101.mp3", candidates[0].BestURL())
	assert.Equal(t, "102", candidates[1].ID)
	assert.Equal(t, model.DurationUnknown, candidates[1].Duration)
	assert.Equal(t, "https://cdn.pixabay.com/audio/102-preview.mp3", candidates[1].BestURL())
}

func TestPixabay_SearchZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalHits": 0, "hits": []}`))
	}))
	defer server.Close()

	p := NewPixabay(Options{Limiter: testLimiter(), BaseURL: server.URL})
	candidates, err := p.Search(context.Background(), "nothing-matches-this", 10)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestPixabay_SearchEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with no body at all.
	}))
	defer server.Close()

	p := NewPixabay(Options{Limiter: testLimiter(), BaseURL: server.URL})
	_, err := p.Search(context.Background(), "bell", 10)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestPixabay_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/audio/101.mp3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fake-mp3-bytes"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "101", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"totalHits": 1, "hits": [
			{"id": 101, "tags": "bell", "audio_url": "` + server.URL + `/audio/101.mp3"}
		]}`))
	})

	dir := t.TempDir()
	p := NewPixabay(Options{Limiter: testLimiter(), BaseURL: server.URL})
	file, err := p.Fetch(context.Background(), "101", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "101.mp3"), file.Path)
	assert.Equal(t, "mp3", file.Ext)

	data, err := os.ReadFile(file.Path)
	require.NoError(t, err)
	assert.Equal(t, "fake-mp3-bytes", string(data))
}

func TestPixabay_FetchUnknownID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalHits": 0, "hits": []}`))
	}))
	defer server.Close()

	p := NewPixabay(Options{Limiter: testLimiter(), BaseURL: server.URL})
	_, err := p.Fetch(context.Background(), "999", t.TempDir())
	assert.ErrorIs(t, err, ErrDownloadFailed)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("soundstorm", Options{Limiter: testLimiter()})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestExtFromURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://cdn/audio/clip.mp3", "mp3"},
		{"https://cdn/audio/clip.WAV", "wav"},
		{"https://cdn/audio/clip.ogg?token=abc", "ogg"},
		{"https://cdn/audio/stream", "mp3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, extFromURL(tt.url), tt.url)
	}
}

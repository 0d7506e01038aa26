package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/absra47/song-managment/src/features/config"
	"github.com/absra47/song-managment/src/features/lyrics"
)

// lyricsOvhResponse mirrors the two bodies the gateway returns: a lyrics
// payload on success and an error string on a miss.
type lyricsOvhResponse struct {
	Lyrics string `json:"lyrics"`
	Error  string `json:"error"`
}

// LyricsOvhProvider fetches lyrics from the lyrics.ovh gateway.
type LyricsOvhProvider struct {
	config *config.Manager
	client *http.Client
}

// NewLyricsOvhProvider creates a new lyrics.ovh provider.
func NewLyricsOvhProvider(cfgManager *config.Manager) *LyricsOvhProvider {
	return &LyricsOvhProvider{
		config: cfgManager,
		client: &http.Client{
			Timeout: time.Duration(cfgManager.Get().Lyrics.TimeoutSeconds) * time.Second,
		},
	}
}

// FetchLyrics asks the gateway for lyrics. A gateway miss maps to
// lyrics.ErrNotFound; everything else (network failures, non-200 statuses,
// malformed bodies) maps to lyrics.ErrUpstream.
func (p *LyricsOvhProvider) FetchLyrics(ctx context.Context, artist, title string) (string, error) {
	base := p.config.Get().Lyrics.ProviderURL
	requestURL := fmt.Sprintf("%s/%s/%s", base, url.PathEscape(artist), url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", lyrics.ErrUpstream, err)
	}
	req.Header.Set("User-Agent", "SongManagment/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", lyrics.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return "", lyrics.ErrNotFound
	default:
		return "", fmt.Errorf("%w: gateway returned status %d", lyrics.ErrUpstream, resp.StatusCode)
	}

	var body lyricsOvhResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", lyrics.ErrUpstream, err)
	}

	if body.Error != "" || body.Lyrics == "" {
		return "", lyrics.ErrNotFound
	}

	return body.Lyrics, nil
}

func (p *LyricsOvhProvider) Name() string    { return "lyricsovh" }
func (p *LyricsOvhProvider) IsEnabled() bool { return p.config.Get().Lyrics.Enabled }

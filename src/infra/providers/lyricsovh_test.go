package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/absra47/song-managment/src/features/config"
	"github.com/absra47/song-managment/src/features/lyrics"
)

func newOvhProvider(baseURL string) *LyricsOvhProvider {
	manager := config.NewManager(&config.Config{
		Lyrics: config.Lyrics{
			Enabled:        true,
			ProviderURL:    baseURL,
			TimeoutSeconds: 5,
		},
	})
	return NewLyricsOvhProvider(manager)
}

func TestFetchLyricsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Queen/Bohemian%20Rhapsody" && r.URL.Path != "/Queen/Bohemian Rhapsody" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"lyrics": "Is this the real life?"}`))
	}))
	defer server.Close()

	provider := newOvhProvider(server.URL)
	text, err := provider.FetchLyrics(context.Background(), "Queen", "Bohemian Rhapsody")
	if err != nil {
		t.Fatalf("FetchLyrics failed: %v", err)
	}
	if text != "Is this the real life?" {
		t.Errorf("Unexpected lyrics %q", text)
	}
}

func TestFetchLyricsNotFoundBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": "No lyrics found"}`))
	}))
	defer server.Close()

	provider := newOvhProvider(server.URL)
	if _, err := provider.FetchLyrics(context.Background(), "Nobody", "Nothing"); !errors.Is(err, lyrics.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestFetchLyricsNotFoundStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "No lyrics found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	provider := newOvhProvider(server.URL)
	if _, err := provider.FetchLyrics(context.Background(), "Nobody", "Nothing"); !errors.Is(err, lyrics.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestFetchLyricsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := newOvhProvider(server.URL)
	_, err := provider.FetchLyrics(context.Background(), "Queen", "Bohemian Rhapsody")
	if !errors.Is(err, lyrics.ErrUpstream) {
		t.Fatalf("Expected ErrUpstream, got %v", err)
	}
}

func TestFetchLyricsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	provider := newOvhProvider(server.URL)
	if _, err := provider.FetchLyrics(context.Background(), "Queen", "Bohemian Rhapsody"); !errors.Is(err, lyrics.ErrUpstream) {
		t.Fatalf("Expected ErrUpstream, got %v", err)
	}
}

func TestFetchLyricsUnreachableGateway(t *testing.T) {
	provider := newOvhProvider("http://127.0.0.1:1")
	if _, err := provider.FetchLyrics(context.Background(), "Queen", "Bohemian Rhapsody"); !errors.Is(err, lyrics.ErrUpstream) {
		t.Fatalf("Expected ErrUpstream, got %v", err)
	}
}

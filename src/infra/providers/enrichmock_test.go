package providers

import (
	"context"
	"testing"
	"time"

	"github.com/absra47/song-managment/src/features/config"
)

func newMockEnricher() *MockEnrichmentProvider {
	manager := config.NewManager(&config.Config{
		Enrichment: config.Enrichment{Enabled: true, TimeoutSeconds: 30},
	})
	provider := NewMockEnrichmentProvider(manager)
	provider.minDelay = time.Millisecond
	provider.maxDelay = 2 * time.Millisecond
	return provider
}

func TestFetchMetadataKnownSong(t *testing.T) {
	provider := newMockEnricher()

	fields, err := provider.FetchMetadata(context.Background(), 1, "Bohemian Rhapsody", "Queen")
	if err != nil {
		t.Fatalf("FetchMetadata failed: %v", err)
	}
	if fields["bpm"] != 144 {
		t.Errorf("Expected bpm 144, got %v", fields["bpm"])
	}
	if fields["mood"] != "Epic" {
		t.Errorf("Expected mood Epic, got %v", fields["mood"])
	}
	if fields["enriched_genre"] != "Progressive Rock" {
		t.Errorf("Expected enriched_genre Progressive Rock, got %v", fields["enriched_genre"])
	}
}

func TestFetchMetadataNormalizesLookup(t *testing.T) {
	provider := newMockEnricher()

	fields, err := provider.FetchMetadata(context.Background(), 1, "  IMAGINE ", "John Lennon")
	if err != nil {
		t.Fatalf("FetchMetadata failed: %v", err)
	}
	if fields == nil {
		t.Fatal("Expected a match regardless of case and padding")
	}
	if fields["bpm"] != 75 {
		t.Errorf("Expected bpm 75, got %v", fields["bpm"])
	}
}

func TestFetchMetadataUnknownSong(t *testing.T) {
	provider := newMockEnricher()

	fields, err := provider.FetchMetadata(context.Background(), 1, "Obscure B-Side", "Nobody")
	if err != nil {
		t.Fatalf("FetchMetadata failed: %v", err)
	}
	if fields != nil {
		t.Errorf("Expected no match, got %v", fields)
	}
}

func TestFetchMetadataHonorsContext(t *testing.T) {
	provider := newMockEnricher()
	provider.minDelay = time.Minute
	provider.maxDelay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	if _, err := provider.FetchMetadata(ctx, 1, "Imagine", "John Lennon"); err == nil {
		t.Fatal("Expected a context error")
	}
}

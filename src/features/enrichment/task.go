package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/absra47/song-managment/src/features/config"
	"github.com/absra47/song-managment/src/features/jobs"
	"github.com/absra47/song-managment/src/features/metrics"
	"github.com/absra47/song-managment/src/song"
)

// JobType is the job type under which enrichment tasks are registered.
const JobType = "enrich_metadata"

// EnrichTask implements jobs.Task. It runs detached from the request that
// scheduled it: the catalog handle and context are its own, and all
// failures stay inside the job record — the original request has already
// been answered.
type EnrichTask struct {
	catalog  song.Catalog
	provider Provider
	config   *config.Manager
	metrics  *metrics.Metrics
}

// NewEnrichTask creates a new enrichment task.
func NewEnrichTask(catalog song.Catalog, provider Provider, cfgManager *config.Manager, m *metrics.Metrics) *EnrichTask {
	return &EnrichTask{
		catalog:  catalog,
		provider: provider,
		config:   cfgManager,
		metrics:  m,
	}
}

// MetadataKeys returns the required job metadata keys.
func (t *EnrichTask) MetadataKeys() []string {
	return []string{"song_id"}
}

// Execute runs one enrichment pass: re-check the song still exists, ask the
// gateway, and apply whatever recognized fields came back in a single
// transaction. A re-trigger overwrites previous metadata; there are no
// retries and no merging.
func (t *EnrichTask) Execute(ctx context.Context, job *jobs.Job, progressUpdater func(int, string)) (map[string]any, error) {
	songID, ok := songIDFromMetadata(job.Metadata["song_id"])
	if !ok {
		return nil, fmt.Errorf("invalid song_id in job metadata: %v", job.Metadata["song_id"])
	}

	record, err := t.catalog.GetSong(ctx, songID)
	if err != nil {
		if errors.Is(err, song.ErrNotFound) {
			// The song was deleted between scheduling and execution.
			job.Logger.Warn("Song vanished before enrichment ran", "songID", songID)
			t.metrics.EnrichmentJobs.WithLabelValues(metrics.EnrichOutcomeSongMissing).Inc()
			return nil, fmt.Errorf("song %d no longer exists", songID)
		}
		t.metrics.EnrichmentJobs.WithLabelValues(metrics.EnrichOutcomeFailed).Inc()
		return nil, fmt.Errorf("failed to load song %d: %w", songID, err)
	}

	if !t.provider.IsEnabled() {
		// Enrichment was switched off between scheduling and execution.
		t.metrics.EnrichmentJobs.WithLabelValues(metrics.EnrichOutcomeFailed).Inc()
		return nil, fmt.Errorf("enrichment provider %q is disabled", t.provider.Name())
	}

	progressUpdater(25, fmt.Sprintf("Fetching metadata for %q by %q", record.Title, record.Artist))

	timeout := time.Duration(t.config.Get().Enrichment.TimeoutSeconds) * time.Second
	gatewayCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fields, err := t.provider.FetchMetadata(gatewayCtx, songID, record.Title, record.Artist)
	if err != nil {
		t.metrics.EnrichmentJobs.WithLabelValues(metrics.EnrichOutcomeFailed).Inc()
		return nil, fmt.Errorf("enrichment gateway failed for song %d: %w", songID, err)
	}

	if len(fields) == 0 {
		job.Logger.Info("No enrichment metadata found", "songID", songID, "title", record.Title, "artist", record.Artist)
		t.metrics.EnrichmentJobs.WithLabelValues(metrics.EnrichOutcomeNoMatch).Inc()
		progressUpdater(100, "No metadata found")
		return map[string]any{"matched": false}, nil
	}

	progressUpdater(75, "Applying metadata")

	update, skipped := song.MetadataUpdateFromMap(fields)
	for _, key := range skipped {
		job.Logger.Warn("Skipping unrecognized metadata field", "songID", songID, "field", key)
	}

	if update.IsEmpty() {
		job.Logger.Info("Gateway returned no recognized fields", "songID", songID, "skipped", skipped)
		t.metrics.EnrichmentJobs.WithLabelValues(metrics.EnrichOutcomeNoMatch).Inc()
		return map[string]any{"matched": false, "skipped_fields": len(skipped)}, nil
	}

	if _, err := t.catalog.ApplyMetadata(ctx, songID, update); err != nil {
		t.metrics.EnrichmentJobs.WithLabelValues(metrics.EnrichOutcomeFailed).Inc()
		return nil, fmt.Errorf("failed to apply metadata for song %d: %w", songID, err)
	}

	job.Logger.Info("Enrichment metadata applied", "songID", songID, "skipped", len(skipped))
	t.metrics.EnrichmentJobs.WithLabelValues(metrics.EnrichOutcomeApplied).Inc()
	progressUpdater(100, "Metadata applied")

	return map[string]any{"matched": true, "skipped_fields": len(skipped)}, nil
}

// Cleanup performs cleanup after job execution.
func (t *EnrichTask) Cleanup(job *jobs.Job) error {
	return nil
}

// songIDFromMetadata accepts the shapes a song id takes after passing
// through job metadata or a JSON decoder.
func songIDFromMetadata(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/absra47/song-managment/src/features/config"
	"github.com/absra47/song-managment/src/features/jobs"
	"github.com/absra47/song-managment/src/song"
)

// ErrDisabled is returned when enrichment is turned off in config.
var ErrDisabled = errors.New("enrichment is disabled")

// Service schedules enrichment jobs.
type Service struct {
	catalog song.Catalog
	jobs    jobs.JobService
	config  *config.Manager
}

// NewService creates a new enrichment service.
func NewService(catalog song.Catalog, jobService jobs.JobService, cfgManager *config.Manager) *Service {
	return &Service{
		catalog: catalog,
		jobs:    jobService,
		config:  cfgManager,
	}
}

// ScheduleEnrichment verifies the song exists and fires an enrichment job.
// It returns as soon as the job is accepted; the job itself runs detached
// and reports nothing back here.
func (s *Service) ScheduleEnrichment(ctx context.Context, songID int64) (string, error) {
	if !s.config.Get().Enrichment.Enabled {
		return "", ErrDisabled
	}

	record, err := s.catalog.GetSong(ctx, songID)
	if err != nil {
		slog.Debug("ScheduleEnrichment: song lookup failed", "songID", songID, "error", err)
		return "", err
	}

	jobID, err := s.jobs.StartJob(JobType, fmt.Sprintf("Enrich %q by %q", record.Title, record.Artist),
		map[string]any{"song_id": songID})
	if err != nil {
		slog.Error("Failed to start enrichment job", "songID", songID, "error", err)
		return "", err
	}

	slog.Info("Enrichment job scheduled", "songID", songID, "jobID", jobID)
	return jobID, nil
}

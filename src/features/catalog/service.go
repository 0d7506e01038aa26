package catalog

import (
	"context"
	"log/slog"

	"github.com/absra47/song-managment/src/song"
)

// Service is the domain service for the catalog feature.
type Service struct {
	catalog song.Catalog
}

// NewService creates a new catalog service.
func NewService(catalog song.Catalog) *Service {
	return &Service{catalog: catalog}
}

// AddSong adds a song to the catalog.
func (s *Service) AddSong(ctx context.Context, record *song.Song) (*song.Song, error) {
	slog.Debug("AddSong service called", "title", record.Title, "artist", record.Artist)
	added, err := s.catalog.AddSong(ctx, record)
	if err != nil {
		slog.Error("AddSong failed", "error", err)
		return nil, err
	}
	slog.Debug("AddSong completed", "id", added.ID)
	return added, nil
}

// GetSong returns a single song by id.
func (s *Service) GetSong(ctx context.Context, id int64) (*song.Song, error) {
	slog.Debug("GetSong service called", "id", id)
	record, err := s.catalog.GetSong(ctx, id)
	if err != nil {
		slog.Debug("GetSong failed", "id", id, "error", err)
		return nil, err
	}
	return record, nil
}

// GetSongsPaginated returns a page of songs.
func (s *Service) GetSongsPaginated(ctx context.Context, limit, offset int) ([]*song.Song, error) {
	slog.Debug("GetSongsPaginated service called", "limit", limit, "offset", offset)
	songs, err := s.catalog.GetSongsPaginated(ctx, limit, offset)
	if err != nil {
		slog.Error("GetSongsPaginated failed", "error", err)
		return nil, err
	}
	slog.Debug("GetSongsPaginated completed", "count", len(songs))
	return songs, nil
}

// GetSongsCount returns the total number of songs.
func (s *Service) GetSongsCount(ctx context.Context) (int, error) {
	count, err := s.catalog.GetSongsCount(ctx)
	if err != nil {
		slog.Error("GetSongsCount failed", "error", err)
		return 0, err
	}
	return count, nil
}

// SearchSongs returns a page of songs matching the query.
func (s *Service) SearchSongs(ctx context.Context, query string, limit, offset int) ([]*song.Song, error) {
	slog.Debug("SearchSongs service called", "query", query, "limit", limit, "offset", offset)
	songs, err := s.catalog.SearchSongs(ctx, query, limit, offset)
	if err != nil {
		slog.Error("SearchSongs failed", "error", err)
		return nil, err
	}
	slog.Debug("SearchSongs completed", "count", len(songs))
	return songs, nil
}

// SearchSongsCount returns the number of songs matching the query.
func (s *Service) SearchSongsCount(ctx context.Context, query string) (int, error) {
	count, err := s.catalog.SearchSongsCount(ctx, query)
	if err != nil {
		slog.Error("SearchSongsCount failed", "error", err)
		return 0, err
	}
	return count, nil
}

// UpdateSong replaces every mutable field of a song, enriched metadata
// included.
func (s *Service) UpdateSong(ctx context.Context, record *song.Song) (*song.Song, error) {
	slog.Debug("UpdateSong service called", "id", record.ID)
	updated, err := s.catalog.UpdateSong(ctx, record)
	if err != nil {
		slog.Error("UpdateSong failed", "id", record.ID, "error", err)
		return nil, err
	}
	return updated, nil
}

// PatchSong applies a partial update to the plain catalog fields.
func (s *Service) PatchSong(ctx context.Context, id int64, update song.Update) (*song.Song, error) {
	slog.Debug("PatchSong service called", "id", id)
	patched, err := s.catalog.PatchSong(ctx, id, update)
	if err != nil {
		slog.Error("PatchSong failed", "id", id, "error", err)
		return nil, err
	}
	return patched, nil
}

// ApplyMetadata applies enriched metadata fields to a song.
func (s *Service) ApplyMetadata(ctx context.Context, id int64, update song.MetadataUpdate) (*song.Song, error) {
	slog.Debug("ApplyMetadata service called", "id", id)
	updated, err := s.catalog.ApplyMetadata(ctx, id, update)
	if err != nil {
		slog.Error("ApplyMetadata failed", "id", id, "error", err)
		return nil, err
	}
	return updated, nil
}

// DeleteSong removes a song from the catalog.
func (s *Service) DeleteSong(ctx context.Context, id int64) error {
	slog.Debug("DeleteSong service called", "id", id)
	if err := s.catalog.DeleteSong(ctx, id); err != nil {
		slog.Error("DeleteSong failed", "id", id, "error", err)
		return err
	}
	slog.Info("Song deleted", "id", id)
	return nil
}

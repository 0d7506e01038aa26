package song

import (
	"context"
)

// Catalog is the repository interface for the song catalog.
// Implementations must make every write a single atomic commit and must be
// safe for concurrent use from request handlers and detached tasks.
type Catalog interface {
	AddSong(ctx context.Context, s *Song) (*Song, error)
	GetSong(ctx context.Context, id int64) (*Song, error)
	UpdateSong(ctx context.Context, s *Song) (*Song, error)
	PatchSong(ctx context.Context, id int64, update Update) (*Song, error)
	ApplyMetadata(ctx context.Context, id int64, update MetadataUpdate) (*Song, error)
	DeleteSong(ctx context.Context, id int64) error

	GetSongsPaginated(ctx context.Context, limit, offset int) ([]*Song, error)
	GetSongsCount(ctx context.Context) (int, error)
	SearchSongs(ctx context.Context, query string, limit, offset int) ([]*Song, error)
	SearchSongsCount(ctx context.Context, query string) (int, error)
}

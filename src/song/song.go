package song

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a song does not exist in the catalog.
var ErrNotFound = errors.New("song not found")

// ErrDuplicateID is returned when a client-supplied id already exists.
var ErrDuplicateID = errors.New("song id already exists")

// Song is a single record in the catalog. The enriched metadata fields are
// nil until an enrichment run (or a direct metadata update) sets them.
type Song struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Genre       string `json:"genre"`
	ReleaseYear int    `json:"release_year"`

	BPM           *int    `json:"bpm,omitempty"`
	Mood          *string `json:"mood,omitempty"`
	EnrichedGenre *string `json:"enriched_genre,omitempty"`

	AddedDate    time.Time `json:"added_date,omitempty"`
	ModifiedDate time.Time `json:"modified_date,omitempty"`
}

// Validate checks the required catalog fields.
func (s *Song) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("song title is required")
	}
	if s.Artist == "" {
		return fmt.Errorf("song artist is required")
	}
	return nil
}

// Update is a partial update of the plain catalog fields. Nil fields are
// left untouched.
type Update struct {
	Title       *string `json:"title,omitempty"`
	Artist      *string `json:"artist,omitempty"`
	Album       *string `json:"album,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	ReleaseYear *int    `json:"release_year,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u Update) IsEmpty() bool {
	return u.Title == nil && u.Artist == nil && u.Album == nil && u.Genre == nil && u.ReleaseYear == nil
}

// Apply writes the set fields onto s.
func (u Update) Apply(s *Song) {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Artist != nil {
		s.Artist = *u.Artist
	}
	if u.Album != nil {
		s.Album = *u.Album
	}
	if u.Genre != nil {
		s.Genre = *u.Genre
	}
	if u.ReleaseYear != nil {
		s.ReleaseYear = *u.ReleaseYear
	}
}

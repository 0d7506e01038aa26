package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/absra47/song-managment/src/song"
)

// MockCatalog is an in-memory song.Catalog for service tests.
type MockCatalog struct {
	song.Catalog
	songs  map[int64]*song.Song
	nextID int64
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{songs: make(map[int64]*song.Song), nextID: 1}
}

func (m *MockCatalog) AddSong(ctx context.Context, record *song.Song) (*song.Song, error) {
	if record.ID != 0 {
		if _, ok := m.songs[record.ID]; ok {
			return nil, song.ErrDuplicateID
		}
	} else {
		record.ID = m.nextID
		m.nextID++
	}
	m.songs[record.ID] = record
	return record, nil
}

func (m *MockCatalog) GetSong(ctx context.Context, id int64) (*song.Song, error) {
	if s, ok := m.songs[id]; ok {
		return s, nil
	}
	return nil, song.ErrNotFound
}

func (m *MockCatalog) PatchSong(ctx context.Context, id int64, update song.Update) (*song.Song, error) {
	s, ok := m.songs[id]
	if !ok {
		return nil, song.ErrNotFound
	}
	update.Apply(s)
	return s, nil
}

func (m *MockCatalog) DeleteSong(ctx context.Context, id int64) error {
	if _, ok := m.songs[id]; !ok {
		return song.ErrNotFound
	}
	delete(m.songs, id)
	return nil
}

func TestAddSongAssignsID(t *testing.T) {
	mock := NewMockCatalog()
	service := NewService(mock)

	added, err := service.AddSong(context.Background(), &song.Song{Title: "Imagine", Artist: "John Lennon"})
	if err != nil {
		t.Fatalf("AddSong failed: %v", err)
	}
	if added.ID == 0 {
		t.Error("Expected an assigned id")
	}
	if _, ok := mock.songs[added.ID]; !ok {
		t.Error("Song was not stored")
	}
}

func TestAddSongDuplicateID(t *testing.T) {
	mock := NewMockCatalog()
	service := NewService(mock)

	if _, err := service.AddSong(context.Background(), &song.Song{ID: 5, Title: "Billie Jean", Artist: "Michael Jackson"}); err != nil {
		t.Fatalf("AddSong failed: %v", err)
	}
	if _, err := service.AddSong(context.Background(), &song.Song{ID: 5, Title: "Thriller", Artist: "Michael Jackson"}); !errors.Is(err, song.ErrDuplicateID) {
		t.Fatalf("Expected ErrDuplicateID, got %v", err)
	}
}

func TestPatchSongKeepsOtherFields(t *testing.T) {
	mock := NewMockCatalog()
	service := NewService(mock)

	added, _ := service.AddSong(context.Background(), &song.Song{Title: "Imagine", Artist: "John Lennon", Genre: "Rock"})

	newGenre := "Soft Rock"
	patched, err := service.PatchSong(context.Background(), added.ID, song.Update{Genre: &newGenre})
	if err != nil {
		t.Fatalf("PatchSong failed: %v", err)
	}
	if patched.Genre != "Soft Rock" {
		t.Errorf("Expected genre Soft Rock, got %q", patched.Genre)
	}
	if patched.Title != "Imagine" {
		t.Errorf("Patch must not touch other fields, got title %q", patched.Title)
	}
}

func TestDeleteSongNotFound(t *testing.T) {
	service := NewService(NewMockCatalog())

	if err := service.DeleteSong(context.Background(), 42); !errors.Is(err, song.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

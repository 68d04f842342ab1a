package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/ytui/internal/models"
	"github.com/desertthunder/ytui/internal/shared"
	"github.com/google/go-cmp/cmp"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func testSong(videoID, title string) models.Song {
	return models.Song{VideoID: videoID, Title: title, Artist: "Radiohead", Album: "OK Computer", Year: "1997", Duration: "4:44"}
}

func TestSongCacheRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		repo := NewSongCacheRepository(setupTestDB(t))
		c := models.NewCachedSong(testSong("vid1", "Airbag"), "/cache/vid1.webm", 1024)

		if err := repo.Create(c); err != nil {
			t.Fatalf("failed to create cached song: %v", err)
		}
		if c.ID() == "" {
			t.Fatal("ID should be set after creation")
		}

		got, err := repo.Get(c.ID())
		if err != nil {
			t.Fatalf("failed to get cached song: %v", err)
		}
		if diff := cmp.Diff(c.Song(), got.Song()); diff != "" {
			t.Errorf("song mismatch (-want +got):\n%s", diff)
		}
		if got.Path() != "/cache/vid1.webm" || got.Size() != 1024 {
			t.Errorf("unexpected path/size %s %d", got.Path(), got.Size())
		}
	})

	t.Run("GetByVideoID", func(t *testing.T) {
		repo := NewSongCacheRepository(setupTestDB(t))
		c := models.NewCachedSong(testSong("vid1", "Airbag"), "/cache/vid1.webm", 1)
		if err := repo.Create(c); err != nil {
			t.Fatalf("failed to create cached song: %v", err)
		}

		got, err := repo.GetByVideoID("vid1")
		if err != nil {
			t.Fatalf("GetByVideoID() error = %v", err)
		}
		if got.ID() != c.ID() {
			t.Errorf("expected ID %s, got %s", c.ID(), got.ID())
		}

		if _, err := repo.GetByVideoID("missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Put replaces by video id", func(t *testing.T) {
		repo := NewSongCacheRepository(setupTestDB(t))
		first := models.NewCachedSong(testSong("vid1", "Airbag"), "/cache/a.webm", 1)
		if err := repo.Put(first); err != nil {
			t.Fatalf("first Put() error = %v", err)
		}

		second := models.NewCachedSong(testSong("vid1", "Airbag (Remastered)"), "/cache/b.webm", 2)
		if err := repo.Put(second); err != nil {
			t.Fatalf("second Put() error = %v", err)
		}
		if second.ID() != first.ID() {
			t.Errorf("Put should keep the existing ID, got %s want %s", second.ID(), first.ID())
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 1 || all[0].Path() != "/cache/b.webm" || all[0].Song().Title != "Airbag (Remastered)" {
			t.Errorf("expected a single replaced entry, got %d", len(all))
		}
	})

	t.Run("List filters and orders", func(t *testing.T) {
		repo := NewSongCacheRepository(setupTestDB(t))
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, id := range []string{"a", "b", "c"} {
			if err := repo.Create(models.NewCachedSong(testSong(id, id), "/cache/"+id, 1)); err != nil {
				t.Fatalf("failed to create %s: %v", id, err)
			}
			if err := repo.MarkPlayed(id, base.Add(time.Duration(i)*time.Hour)); err != nil {
				t.Fatalf("MarkPlayed(%s) error = %v", id, err)
			}
		}
		other := testSong("d", "d")
		other.Artist = "Portishead"
		if err := repo.Create(models.NewCachedSong(other, "/cache/d", 1)); err != nil {
			t.Fatalf("failed to create d: %v", err)
		}

		got, err := repo.List(map[string]any{"artist": "Radiohead"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		var ids []string
		for _, c := range got {
			ids = append(ids, c.VideoID())
		}
		if diff := cmp.Diff([]string{"c", "b", "a"}, ids); diff != "" {
			t.Errorf("List() order mismatch (-want +got):\n%s", diff)
		}

		limited, err := repo.List(map[string]any{"limit": 2})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 entries with limit, got %d", len(limited))
		}
	})

	t.Run("Prune", func(t *testing.T) {
		repo := NewSongCacheRepository(setupTestDB(t))
		cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		plays := map[string]time.Time{
			"old":    cutoff.Add(-48 * time.Hour),
			"older":  cutoff.Add(-72 * time.Hour),
			"recent": cutoff.Add(time.Hour),
		}
		for id, at := range plays {
			if err := repo.Create(models.NewCachedSong(testSong(id, id), "/cache/"+id, 10)); err != nil {
				t.Fatalf("failed to create %s: %v", id, err)
			}
			if err := repo.MarkPlayed(id, at); err != nil {
				t.Fatalf("MarkPlayed(%s) error = %v", id, err)
			}
		}

		removed, err := repo.Prune(cutoff)
		if err != nil {
			t.Fatalf("Prune() error = %v", err)
		}
		var ids []string
		for _, c := range removed {
			ids = append(ids, c.VideoID())
		}
		if diff := cmp.Diff([]string{"older", "old"}, ids); diff != "" {
			t.Errorf("Prune() mismatch (-want +got):\n%s", diff)
		}

		left, _ := repo.List(nil)
		if len(left) != 1 || left[0].VideoID() != "recent" {
			t.Errorf("expected only the recent song to remain, got %d entries", len(left))
		}

		total, err := repo.TotalSize()
		if err != nil || total != 10 {
			t.Errorf("TotalSize() = %d, %v; want 10", total, err)
		}
	})
}

func TestSongCacheRepositoryErrors(t *testing.T) {
	t.Run("ValidationError", func(t *testing.T) {
		repo := NewSongCacheRepository(setupTestDB(t))
		if err := repo.Create(models.NewCachedSong(models.Song{Title: "x"}, "/p", 1)); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for missing video id, got %v", err)
		}
		if err := repo.Create(models.NewCachedSong(testSong("v", "x"), "", 1)); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for missing path, got %v", err)
		}
	})

	t.Run("DuplicateVideoID", func(t *testing.T) {
		repo := NewSongCacheRepository(setupTestDB(t))
		if err := repo.Create(models.NewCachedSong(testSong("v", "x"), "/p", 1)); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		if err := repo.Create(models.NewCachedSong(testSong("v", "y"), "/q", 1)); err == nil {
			t.Fatal("expected error when creating a duplicate video id")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := NewSongCacheRepository(setupTestDB(t))
		if _, err := repo.Get("nope"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Get: expected ErrNotFound, got %v", err)
		}
		if err := repo.Delete("nope"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Delete: expected ErrNotFound, got %v", err)
		}
		if err := repo.MarkPlayed("nope", time.Now()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("MarkPlayed: expected ErrNotFound, got %v", err)
		}
		c := models.NewCachedSong(testSong("v", "x"), "/p", 1)
		c.SetID("nope")
		if err := repo.Update(c); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Update: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewSongCacheRepository(setupTestDB(t))
		c := models.NewCachedSong(testSong("v", "x"), "/p", 1)
		if err := repo.Create(c); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		if err := repo.Delete(c.ID()); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := repo.Delete(c.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("second Delete: expected ErrNotFound, got %v", err)
		}
	})
}

package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jspicer/mediahub/internal/models"
	"github.com/jspicer/mediahub/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, repo *UserRepository, username string) *models.User {
	t.Helper()

	user := models.NewUser(0, username, "hash")
	if err := repo.Create(user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	t.Run("increments monotonically", func(t *testing.T) {
		first, err := NextSequence(db, "users")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		second, err := NextSequence(db, "users")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}

		if second != first+1 {
			t.Errorf("expected %d, got %d", first+1, second)
		}
	})

	t.Run("independent per table", func(t *testing.T) {
		before, _ := NextSequence(db, "movies")
		if _, err := NextSequence(db, "books"); err != nil {
			t.Fatalf("failed to get books sequence: %v", err)
		}
		after, _ := NextSequence(db, "movies")

		if after != before+1 {
			t.Errorf("books sequence leaked into movies: %d then %d", before, after)
		}
	})

	t.Run("unknown table", func(t *testing.T) {
		if _, err := NextSequence(db, "podcasts"); err == nil {
			t.Error("expected error for unknown sequence table")
		}
	})
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	t.Run("Create and Get", func(t *testing.T) {
		user := createTestUser(t, repo, "alice")

		if user.ID() == "" {
			t.Fatal("expected generated id")
		}

		got, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Username() != "alice" {
			t.Errorf("expected alice, got %s", got.Username())
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		createTestUser(t, repo, "bob")

		dup := models.NewUser(0, "bob", "otherhash")
		err := repo.Create(dup)
		if !errors.Is(err, shared.ErrDuplicateUsername) {
			t.Errorf("expected ErrDuplicateUsername, got %v", err)
		}
	})

	t.Run("usernames are case sensitive", func(t *testing.T) {
		createTestUser(t, repo, "Carol")

		if _, err := repo.GetByUsername("carol"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for different case, got %v", err)
		}
		if _, err := repo.GetByUsername("Carol"); err != nil {
			t.Errorf("expected exact match to succeed: %v", err)
		}
	})

	t.Run("GetByUsername missing", func(t *testing.T) {
		if _, err := repo.GetByUsername("nobody"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Count", func(t *testing.T) {
		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 users, got %d", count)
		}
	})

	t.Run("invalid user rejected", func(t *testing.T) {
		err := repo.Create(models.NewUser(0, "", "hash"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestItemRepository(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	items := NewItemRepository(db)

	alice := createTestUser(t, users, "alice")
	bob := createTestUser(t, users, "bob")

	t.Run("Create stores catalog columns per section", func(t *testing.T) {
		movie := models.NewItem(models.CategoryMovies, alice.ID(), "Alien", "https://example.com/alien")
		movie.SetCatalogID("348")
		movie.SetMediaKind("film")
		if err := items.Create(movie); err != nil {
			t.Fatalf("failed to create movie: %v", err)
		}

		song := models.NewItem(models.CategorySongs, alice.ID(), "Yesterday by The Beatles", "https://open.spotify.com/track/3BQHpFgAp4l80e1XslIjNI")
		song.SetCatalogTrackID("3BQHpFgAp4l80e1XslIjNI")
		song.SetArtworkURL("https://i.scdn.co/image/abc")
		if err := items.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		movies, err := items.ListByUser(alice.ID(), models.CategoryMovies)
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}
		if len(movies) != 1 || movies[0].CatalogID() != "348" || movies[0].MediaKind() != "film" {
			t.Errorf("movie catalog columns not round-tripped: %+v", movies[0])
		}

		songs, err := items.ListByUser(alice.ID(), models.CategorySongs)
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 1 || songs[0].CatalogTrackID() != "3BQHpFgAp4l80e1XslIjNI" {
			t.Errorf("song catalog columns not round-tripped: %+v", songs[0])
		}
		if songs[0].ArtworkURL() != "https://i.scdn.co/image/abc" {
			t.Errorf("artwork url not round-tripped: %s", songs[0].ArtworkURL())
		}
	})

	t.Run("ListByUser is owner scoped and newest first", func(t *testing.T) {
		older := models.NewItem(models.CategoryBooks, alice.ID(), "Dune", "")
		older.SetCreatedAt(time.Now().Add(-time.Hour))
		if err := items.Create(older); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		newer := models.NewItem(models.CategoryBooks, alice.ID(), "Hyperion", "")
		if err := items.Create(newer); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		other := models.NewItem(models.CategoryBooks, bob.ID(), "Neuromancer", "")
		if err := items.Create(other); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		got, err := items.ListByUser(alice.ID(), models.CategoryBooks)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}

		if len(got) != 2 {
			t.Fatalf("expected 2 books for alice, got %d", len(got))
		}
		if got[0].Title() != "Hyperion" || got[1].Title() != "Dune" {
			t.Errorf("expected newest first, got %s then %s", got[0].Title(), got[1].Title())
		}
	})

	t.Run("Titles", func(t *testing.T) {
		titles, err := items.Titles(alice.ID(), models.CategoryBooks)
		if err != nil {
			t.Fatalf("failed to get titles: %v", err)
		}
		if len(titles) != 2 {
			t.Fatalf("expected 2 titles, got %d", len(titles))
		}
	})

	t.Run("ListAll includes every owner", func(t *testing.T) {
		all, err := items.ListAll(models.CategoryBooks)
		if err != nil {
			t.Fatalf("failed to list all: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 books across users, got %d", len(all))
		}

		owners := map[string]bool{}
		for _, owned := range all {
			owners[owned.Username] = true
		}
		if !owners["alice"] || !owners["bob"] {
			t.Errorf("expected both owners in admin listing, got %v", owners)
		}
	})

	t.Run("Delete is owner scoped", func(t *testing.T) {
		bookmark := models.NewItem(models.CategoryBookmarks, alice.ID(), "Go blog", "https://go.dev/blog")
		if err := items.Create(bookmark); err != nil {
			t.Fatalf("failed to create bookmark: %v", err)
		}

		// Someone else's delete must not touch the row.
		err := items.Delete(bob.ID(), models.CategoryBookmarks, bookmark.ID())
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for foreign delete, got %v", err)
		}

		if err := items.Delete(alice.ID(), models.CategoryBookmarks, bookmark.ID()); err != nil {
			t.Fatalf("owner delete failed: %v", err)
		}

		// Second delete of the same id reports not found.
		err = items.Delete(alice.ID(), models.CategoryBookmarks, bookmark.ID())
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for repeat delete, got %v", err)
		}
	})

	t.Run("DeleteAny ignores ownership", func(t *testing.T) {
		item := models.NewItem(models.CategoryBooks, bob.ID(), "Snow Crash", "")
		if err := items.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		if err := items.DeleteAny(models.CategoryBooks, item.ID()); err != nil {
			t.Fatalf("admin delete failed: %v", err)
		}
	})

	t.Run("Count", func(t *testing.T) {
		count, err := items.Count(models.CategoryBooks)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 3 {
			t.Errorf("expected 3 books, got %d", count)
		}
	})

	t.Run("invalid category", func(t *testing.T) {
		if _, err := items.ListByUser(alice.ID(), models.Category("music")); !errors.Is(err, shared.ErrInvalidCategory) {
			t.Errorf("expected ErrInvalidCategory, got %v", err)
		}
	})
}

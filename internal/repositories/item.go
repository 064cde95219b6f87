package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jspicer/mediahub/internal/models"
	"github.com/jspicer/mediahub/internal/shared"
)

// itemStatements is the full set of literal SQL for one section table.
//
// Every query selects the same ten-column shape; sections without a given
// catalog column select an empty string literal in its place so scanning is
// uniform across all four tables.
type itemStatements struct {
	insert     string
	listByUser string
	listAll    string
	deleteOwn  string
	deleteAny  string
	count      string
}

var itemTables = map[models.Category]itemStatements{
	models.CategoryMovies: {
		insert: `INSERT INTO movies (id, sequence, user_id, title, link, catalog_id, media_kind, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		listByUser: `SELECT id, sequence, user_id, title, link, catalog_id, media_kind, '', '', created_at
			FROM movies WHERE user_id = ? ORDER BY created_at DESC, sequence DESC`,
		listAll: `SELECT i.id, i.sequence, i.user_id, i.title, i.link, i.catalog_id, i.media_kind, '', '', i.created_at, u.username
			FROM movies i JOIN users u ON i.user_id = u.id ORDER BY u.username, i.sequence`,
		deleteOwn: `DELETE FROM movies WHERE id = ? AND user_id = ?`,
		deleteAny: `DELETE FROM movies WHERE id = ?`,
		count:     `SELECT COUNT(*) FROM movies`,
	},
	models.CategorySongs: {
		insert: `INSERT INTO songs (id, sequence, user_id, title, link, catalog_track_id, artwork_url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		listByUser: `SELECT id, sequence, user_id, title, link, '', '', catalog_track_id, artwork_url, created_at
			FROM songs WHERE user_id = ? ORDER BY created_at DESC, sequence DESC`,
		listAll: `SELECT i.id, i.sequence, i.user_id, i.title, i.link, '', '', i.catalog_track_id, i.artwork_url, i.created_at, u.username
			FROM songs i JOIN users u ON i.user_id = u.id ORDER BY u.username, i.sequence`,
		deleteOwn: `DELETE FROM songs WHERE id = ? AND user_id = ?`,
		deleteAny: `DELETE FROM songs WHERE id = ?`,
		count:     `SELECT COUNT(*) FROM songs`,
	},
	models.CategoryBookmarks: {
		insert: `INSERT INTO bookmarks (id, sequence, user_id, title, link, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
		listByUser: `SELECT id, sequence, user_id, title, link, '', '', '', '', created_at
			FROM bookmarks WHERE user_id = ? ORDER BY created_at DESC, sequence DESC`,
		listAll: `SELECT i.id, i.sequence, i.user_id, i.title, i.link, '', '', '', '', i.created_at, u.username
			FROM bookmarks i JOIN users u ON i.user_id = u.id ORDER BY u.username, i.sequence`,
		deleteOwn: `DELETE FROM bookmarks WHERE id = ? AND user_id = ?`,
		deleteAny: `DELETE FROM bookmarks WHERE id = ?`,
		count:     `SELECT COUNT(*) FROM bookmarks`,
	},
	models.CategoryBooks: {
		insert: `INSERT INTO books (id, sequence, user_id, title, link, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
		listByUser: `SELECT id, sequence, user_id, title, link, '', '', '', '', created_at
			FROM books WHERE user_id = ? ORDER BY created_at DESC, sequence DESC`,
		listAll: `SELECT i.id, i.sequence, i.user_id, i.title, i.link, '', '', '', '', i.created_at, u.username
			FROM books i JOIN users u ON i.user_id = u.id ORDER BY u.username, i.sequence`,
		deleteOwn: `DELETE FROM books WHERE id = ? AND user_id = ?`,
		deleteAny: `DELETE FROM books WHERE id = ?`,
		count:     `SELECT COUNT(*) FROM books`,
	},
}

// statements resolves the literal SQL set for a category.
func statements(category models.Category) (itemStatements, error) {
	stmts, ok := itemTables[category]
	if !ok {
		return itemStatements{}, fmt.Errorf("%w: %q", shared.ErrInvalidCategory, category)
	}
	return stmts, nil
}

// OwnedItem pairs an item with its owner's username for the admin view.
type OwnedItem struct {
	Item     *models.Item
	Username string
}

// ItemRepository implements persistence for [models.Item] across the four section tables.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new [ItemRepository] with the given database connection
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new item into its section table with generated ID and sequence.
func (r *ItemRepository) Create(item *models.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	stmts, err := statements(item.Category())
	if err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, item.Category().String())
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	item.SetID(id)
	item.SetSequence(sequence)

	args := []any{id, sequence, item.UserID(), item.Title(), item.Link()}
	switch item.Category() {
	case models.CategoryMovies:
		args = append(args, item.CatalogID(), item.MediaKind())
	case models.CategorySongs:
		args = append(args, item.CatalogTrackID(), item.ArtworkURL())
	}
	args = append(args, item.CreatedAt())

	if _, err := r.db.Exec(stmts.insert, args...); err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// ListByUser retrieves all of one user's items in a category, newest first.
func (r *ItemRepository) ListByUser(userID string, category models.Category) ([]*models.Item, error) {
	stmts, err := statements(category)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(stmts.listByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows, category, nil)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// ListAll retrieves every user's items in a category with owner usernames,
// ordered by username. This is the admin view; it is deliberately unscoped.
func (r *ItemRepository) ListAll(category models.Category) ([]OwnedItem, error) {
	stmts, err := statements(category)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(stmts.listAll)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []OwnedItem
	for rows.Next() {
		var username string
		item, err := scanItem(rows, category, &username)
		if err != nil {
			return nil, err
		}
		items = append(items, OwnedItem{Item: item, Username: username})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// Titles returns the titles of a user's items in a category.
func (r *ItemRepository) Titles(userID string, category models.Category) ([]string, error) {
	items, err := r.ListByUser(userID, category)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title())
	}
	return titles, nil
}

// Delete removes an item scoped to its owner. Deleting an item that does not
// exist or belongs to someone else reports [shared.ErrNotFound]; this is the
// access-control boundary for non-admin callers.
func (r *ItemRepository) Delete(userID string, category models.Category, id string) error {
	stmts, err := statements(category)
	if err != nil {
		return err
	}
	return r.deleteWith(stmts.deleteOwn, id, userID)
}

// DeleteAny removes an item regardless of owner. Admin only.
func (r *ItemRepository) DeleteAny(category models.Category, id string) error {
	stmts, err := statements(category)
	if err != nil {
		return err
	}
	return r.deleteWith(stmts.deleteAny, id)
}

func (r *ItemRepository) deleteWith(query string, args ...any) error {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: item", shared.ErrNotFound)
	}

	return nil
}

// Count returns the number of items stored in a category across all users.
func (r *ItemRepository) Count(category models.Category) (int, error) {
	stmts, err := statements(category)
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(stmts.count).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// scanItem reads one row in the uniform ten-column shape, plus the owner
// username when dst is non-nil (admin listing).
func scanItem(rows *sql.Rows, category models.Category, username *string) (*models.Item, error) {
	var (
		id             string
		sequence       int
		userID         string
		title          string
		link           string
		catalogID      string
		mediaKind      string
		catalogTrackID string
		artworkURL     string
		createdAt      time.Time
	)

	dest := []any{&id, &sequence, &userID, &title, &link, &catalogID, &mediaKind, &catalogTrackID, &artworkURL, &createdAt}
	if username != nil {
		dest = append(dest, username)
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	item := models.NewItem(category, userID, title, link)
	item.SetID(id)
	item.SetSequence(sequence)
	item.SetCreatedAt(createdAt)
	item.SetCatalogID(catalogID)
	item.SetMediaKind(mediaKind)
	item.SetCatalogTrackID(catalogTrackID)
	item.SetArtworkURL(artworkURL)

	return item, nil
}

package repositories

import (
	"database/sql"
	"fmt"
)

// sequenceStatements holds the literal SQL pair for each sequence table.
// Keyed by table name so no SQL is ever built from a caller-supplied string.
var sequenceStatements = map[string][2]string{
	"users":     {"UPDATE users_sequence SET value = value + 1 WHERE id = 1", "SELECT value FROM users_sequence WHERE id = 1"},
	"movies":    {"UPDATE movies_sequence SET value = value + 1 WHERE id = 1", "SELECT value FROM movies_sequence WHERE id = 1"},
	"songs":     {"UPDATE songs_sequence SET value = value + 1 WHERE id = 1", "SELECT value FROM songs_sequence WHERE id = 1"},
	"bookmarks": {"UPDATE bookmarks_sequence SET value = value + 1 WHERE id = 1", "SELECT value FROM bookmarks_sequence WHERE id = 1"},
	"books":     {"UPDATE books_sequence SET value = value + 1 WHERE id = 1", "SELECT value FROM books_sequence WHERE id = 1"},
}

// NextSequence atomically increments and returns the next sequence number for the given table.
//
// Sequence numbers provide human-readable ordering for entities (e.g., user #42, item #15).
// They are NOT exposed in API responses but used internally for sorting and debugging.
func NextSequence(db *sql.DB, table string) (int, error) {
	stmts, ok := sequenceStatements[table]
	if !ok {
		return 0, fmt.Errorf("unknown sequence table: %s", table)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmts[0]); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow(stmts[1]).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

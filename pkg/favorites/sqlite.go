package favorites

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mchmarny/navmenu/pkg/menu"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS favorites (
	link        TEXT PRIMARY KEY,
	label       TEXT NOT NULL,
	icon        TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	position    INTEGER NOT NULL
);`

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating when needed) the favorites database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites db: %w", err)
	}
	// Single writer; keeps position allocation consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create favorites schema: %w", err)
	}

	slog.Debug("favorites store opened", "path", path)
	return &SQLite{db: db}, nil
}

// IsFavorited reports whether the item's link is saved. Query errors are
// logged and reported as not favorited.
func (s *SQLite) IsFavorited(item *menu.Item) bool {
	if item == nil || item.Link == "" {
		return false
	}
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM favorites WHERE link = ?`, Key(item.Link)).Scan(&n); err != nil {
		slog.Error("failed to query favorite", "link", item.Link, "error", err)
		return false
	}
	return n > 0
}

// Toggle saves or removes the item.
func (s *SQLite) Toggle(item *menu.Item) error {
	fav, err := fromItem(item)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin favorites tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM favorites WHERE link = ?`, fav.Link)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		_, err = tx.Exec(`INSERT INTO favorites (link, label, icon, description, position)
			VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM favorites))`,
			fav.Link, fav.Label, fav.Icon, fav.Description)
		if err != nil {
			return fmt.Errorf("failed to save favorite: %w", err)
		}
	}

	return tx.Commit()
}

// List returns favorites in the order they were saved.
func (s *SQLite) List() ([]Favorite, error) {
	rows, err := s.db.Query(`SELECT label, link, icon, description FROM favorites ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var out []Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.Label, &f.Link, &f.Icon, &f.Description); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// RemoveAt removes the favorite at position i of List.
func (s *SQLite) RemoveAt(i int) error {
	if i < 0 {
		return ErrOutOfRange
	}
	var link string
	err := s.db.QueryRow(`SELECT link FROM favorites ORDER BY position LIMIT 1 OFFSET ?`, i).Scan(&link)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOutOfRange
	}
	if err != nil {
		return fmt.Errorf("failed to find favorite: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM favorites WHERE link = ?`, link); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// Clear removes every favorite.
func (s *SQLite) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM favorites`); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

package sqlite

import (
	"github.com/gridfall/desktop-organizer/internal/domain"
)

// GetAll returns every known icon position keyed by filename.
func (s *Store) GetAll() (map[string]domain.IconPosition, error) {
	rows, err := s.db.Query(`SELECT filename, x, y, width, height FROM icon_positions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make(map[string]domain.IconPosition)
	for rows.Next() {
		var p domain.IconPosition
		if err := rows.Scan(&p.Filename, &p.X, &p.Y, &p.Width, &p.Height); err != nil {
			return nil, err
		}
		positions[p.Filename] = p
	}
	return positions, rows.Err()
}

// SetPosition moves the named icon to (x, y), creating the row if the icon is
// new.
func (s *Store) SetPosition(filename string, x, y int) error {
	query := `
		INSERT INTO icon_positions (filename, x, y, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(filename) DO UPDATE SET
			x = excluded.x,
			y = excluded.y,
			updated_at = datetime('now')
	`
	_, err := s.db.Exec(query, filename, x, y)
	return err
}

// RemoveIcon deletes the position row for an icon that no longer exists.
func (s *Store) RemoveIcon(filename string) error {
	_, err := s.db.Exec(`DELETE FROM icon_positions WHERE filename = ?`, filename)
	return err
}

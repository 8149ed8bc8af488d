package sqlite

import (
	"github.com/gridfall/desktop-organizer/internal/domain"
)

// RecordCorrection stores one correction.
func (s *Store) RecordCorrection(c *domain.Correction) error {
	query := `
		INSERT INTO corrections (id, filename, from_region, to_region, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query, c.ID, c.Filename, c.FromRegion, c.ToRegion, c.CreatedAt)
	return err
}

// RecentCorrections returns up to limit corrections, newest first.
func (s *Store) RecentCorrections(limit int) ([]domain.Correction, error) {
	query := `
		SELECT id, filename, from_region, to_region, created_at
		FROM corrections
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Correction
	for rows.Next() {
		var c domain.Correction
		if err := rows.Scan(&c.ID, &c.Filename, &c.FromRegion, &c.ToRegion, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

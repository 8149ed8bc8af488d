package port

import (
	"github.com/gridfall/desktop-organizer/internal/domain"
)

// IconStore is the external icon-position store (the OS shell or its stand-in).
// Calls may be slow and failures must be treated as retryable.
type IconStore interface {
	// GetAll returns every known icon position keyed by filename.
	GetAll() (map[string]domain.IconPosition, error)

	// SetPosition moves the named icon to (x, y).
	SetPosition(filename string, x, y int) error
}

// RuleSetRepository persists loaded rule sets so the active set survives a
// restart.
type RuleSetRepository interface {
	// SaveRuleSet records a rule set as the most recently loaded one.
	SaveRuleSet(rs *domain.RuleSet) error

	// LatestRuleSet returns the most recently saved rule set, or nil when
	// none has been saved yet.
	LatestRuleSet() (*domain.RuleSet, error)
}

// CorrectionRepository records user corrections (icons moved out of the
// region a rule chose) for the rule-generation service to learn from.
type CorrectionRepository interface {
	// RecordCorrection stores one correction.
	RecordCorrection(c *domain.Correction) error

	// RecentCorrections returns up to limit corrections, newest first.
	RecentCorrections(limit int) ([]domain.Correction, error)
}

// Store combines the persistence interfaces backed by a single database.
type Store interface {
	IconStore
	RuleSetRepository
	CorrectionRepository

	// Ping checks connectivity.
	Ping() error

	// Close releases the underlying resources.
	Close() error
}

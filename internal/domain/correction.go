package domain

import (
	"time"

	"github.com/google/uuid"
)

// Correction records a user overriding a rule's choice by moving an icon into
// a different region. Corrections feed back into rule generation.
type Correction struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FromRegion string    `json:"from_region"`
	ToRegion   string    `json:"to_region"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCorrection creates a correction for the given icon move.
func NewCorrection(filename, fromRegion, toRegion string) *Correction {
	return &Correction{
		ID:         uuid.NewString(),
		Filename:   filename,
		FromRegion: fromRegion,
		ToRegion:   toRegion,
		CreatedAt:  time.Now(),
	}
}

package store

import (
	"time"

	"github.com/google/uuid"
)

// NewRunID generates a unique run identifier.
// Uses UUIDv7 (time-ordered) so run IDs sort by creation time, which
// keeps listing queries chronological without a separate sort column.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewRunRecord assembles a RunRecord for a fresh run, assigning its ID
// and creation time.
func NewRunRecord(name, profileHash string, precision int64, scale float64, shots, steps int64) RunRecord {
	return RunRecord{
		ID:          NewRunID(),
		Name:        name,
		ProfileHash: profileHash,
		Precision:   precision,
		Scale:       scale,
		Shots:       shots,
		Steps:       steps,
		CreatedAt:   time.Now().UTC(),
	}
}

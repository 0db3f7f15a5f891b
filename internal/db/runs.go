package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRecord is a won run as stored in the runs table.
type RunRecord struct {
	ID            string
	SessionID     string
	SessionCode   string
	Variant       string
	Name          string
	Elapsed       float64
	Clicks        int
	Purchases     int
	TargetsHit    int
	FinalCurrency int64
	FinishedAt    time.Time
}

// RecordRun inserts a finished run and returns its id.
func (d *DB) RecordRun(r RunRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	_, err := d.conn.Exec(`
		INSERT INTO runs (id, session_id, session_code, variant, name, elapsed, clicks, purchases, targets_hit, final_currency, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.ID, r.SessionID, r.SessionCode, r.Variant, r.Name, r.Elapsed, r.Clicks, r.Purchases, r.TargetsHit, r.FinalCurrency, r.FinishedAt)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return r.ID, nil
}

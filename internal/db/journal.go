package db

import (
	"fmt"
	"log"
	"time"

	"mulletclicker/internal/events"
)

// JournalEntry is one engine event recorded for a session.
type JournalEntry struct {
	SessionID   string
	SessionCode string
	Type        string
	Amount      int64
	UpgradeID   string
	Level       int
	TargetID    int
	Elapsed     float64
	At          time.Time
}

// EntryFromEvent stamps an engine event with its session and time.
func EntryFromEvent(sessionID, code string, ev events.Event, at time.Time) JournalEntry {
	return JournalEntry{
		SessionID:   sessionID,
		SessionCode: code,
		Type:        string(ev.Type),
		Amount:      ev.Amount,
		UpgradeID:   ev.UpgradeID,
		Level:       ev.Level,
		TargetID:    ev.TargetID,
		Elapsed:     ev.Elapsed,
		At:          at,
	}
}

const insertJournal = `
	INSERT INTO journal (session_id, session_code, type, amount, upgrade_id, level, target_id, elapsed, at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (d *DB) RecordJournal(e JournalEntry) error {
	_, err := d.conn.Exec(insertJournal, e.SessionID, e.SessionCode, e.Type, e.Amount, e.UpgradeID, e.Level, e.TargetID, e.Elapsed, e.At)
	if err != nil {
		return fmt.Errorf("recording journal entry: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordJournal(entries []JournalEntry) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertJournal)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.SessionID, e.SessionCode, e.Type, e.Amount, e.UpgradeID, e.Level, e.TargetID, e.Elapsed, e.At); err != nil {
			return fmt.Errorf("recording journal entry in batch: %w", err)
		}
	}

	return tx.Commit()
}

// JournalWriter flushes buffered entries every interval or once a batch fills.
type JournalWriter struct {
	db       *DB
	buffer   chan JournalEntry
	interval time.Duration
	batch    int
}

func NewJournalWriter(database *DB) *JournalWriter {
	return &JournalWriter{
		db:       database,
		buffer:   make(chan JournalEntry, 1000),
		interval: 500 * time.Millisecond,
		batch:    50,
	}
}

// Enqueue never blocks; entries are dropped when the buffer is full.
func (w *JournalWriter) Enqueue(e JournalEntry) {
	select {
	case w.buffer <- e:
	default:
		log.Println("[DB] Journal buffer full, dropping entry")
	}
}

// Run writes batches until stop is closed, then flushes what is left.
func (w *JournalWriter) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	batch := make([]JournalEntry, 0, w.batch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := w.db.BatchRecordJournal(batch); err != nil {
			log.Printf("[DB] BatchRecordJournal error: %v\n", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-stop:
			for {
				select {
				case e := <-w.buffer:
					batch = append(batch, e)
				default:
					flush()
					return
				}
			}
		case e := <-w.buffer:
			batch = append(batch, e)
			if len(batch) >= w.batch {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

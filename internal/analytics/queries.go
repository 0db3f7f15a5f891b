package analytics

import (
	"fmt"

	"mulletclicker/internal/db"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

func (q *Queries) GetSessionStats(code string) (*SessionStats, error) {
	stats := &SessionStats{SessionCode: code}

	err := q.DB.QueryRow(`
		SELECT
			COUNT(*) as runs,
			COALESCE(MIN(elapsed), 0) as best_time
		FROM runs
		WHERE session_code = $1
	`, code).Scan(&stats.Runs, &stats.BestTime)
	if err != nil {
		return nil, fmt.Errorf("getting run stats: %w", err)
	}

	err = q.DB.QueryRow(`
		SELECT
			COUNT(*) as events,
			COUNT(*) FILTER (WHERE type = 'click') as clicks,
			COUNT(*) FILTER (WHERE type = 'target_hit') as hits
		FROM journal
		WHERE session_code = $1
	`, code).Scan(&stats.Events, &stats.TotalClicks, &stats.TotalHits)
	if err != nil {
		return nil, fmt.Errorf("getting journal stats: %w", err)
	}

	return stats, nil
}

// GetTopRuns returns the fastest recorded runs with their badges.
func (q *Queries) GetTopRuns(limit int) ([]TopRun, error) {
	rows, err := q.DB.Query(`
		SELECT id, name, session_code, elapsed, finished_at
		FROM runs
		ORDER BY elapsed ASC, finished_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("getting top runs: %w", err)
	}
	defer rows.Close()

	var runs []TopRun
	rank := 1
	for rows.Next() {
		var r TopRun
		if err := rows.Scan(&r.ID, &r.Name, &r.SessionCode, &r.Elapsed, &r.FinishedAt); err != nil {
			return nil, err
		}
		r.Rank = rank
		rank++
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		badges, err := q.DB.GetRunBadges(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Badges = badges
	}
	return runs, nil
}

// RecordWin stores a won run and the badges it earned. It returns the badges.
func (q *Queries) RecordWin(run db.RunRecord) ([]Badge, error) {
	id, err := q.DB.RecordRun(run)
	if err != nil {
		return nil, err
	}
	earned := EvaluateRunBadges(RunStats{
		Elapsed:       run.Elapsed,
		Clicks:        run.Clicks,
		Purchases:     run.Purchases,
		TargetsHit:    run.TargetsHit,
		FinalCurrency: run.FinalCurrency,
	})
	for _, b := range earned {
		if err := q.DB.AwardBadge(id, string(b.ID)); err != nil {
			return earned, err
		}
	}
	return earned, nil
}

package analytics

import "time"

// RunStats describes one finished run for badge evaluation.
type RunStats struct {
	Elapsed       float64 // seconds
	Clicks        int
	Purchases     int
	TargetsHit    int
	FinalCurrency int64
}

// CPS is manual clicks per second over the run.
func (s RunStats) CPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Clicks) / s.Elapsed
}

type SessionStats struct {
	SessionCode string
	Runs        int
	BestTime    float64
	TotalClicks int
	TotalHits   int
	Events      int
}

type TopRun struct {
	Rank        int
	ID          string
	Name        string
	SessionCode string
	Elapsed     float64
	FinishedAt  time.Time
	Badges      []string
}

package metrics

import (
	"net/http"

	"mulletclicker/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder turns engine events into Prometheus series. It is safe to share
// across sessions.
type Recorder struct {
	clicks    prometheus.Counter
	earned    *prometheus.CounterVec
	purchases *prometheus.CounterVec
	targets   *prometheus.CounterVec
	wins      prometheus.Counter
	winTime   prometheus.Histogram
	submits   prometheus.Counter
	sessions  prometheus.Gauge
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		clicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mullet_clicks_total",
			Help: "Manual clicks across all sessions.",
		}),
		earned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mullet_currency_earned_total",
			Help: "Currency credited, by source.",
		}, []string{"source"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mullet_purchases_total",
			Help: "Upgrade levels bought, by upgrade.",
		}, []string{"upgrade"}),
		targets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mullet_targets_total",
			Help: "Bonus target lifecycle events.",
		}, []string{"outcome"}),
		wins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mullet_wins_total",
			Help: "Runs that reached the win amount.",
		}),
		winTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mullet_win_seconds",
			Help:    "Run time at win.",
			Buckets: []float64{30, 60, 120, 300, 600, 1200, 3600},
		}),
		submits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mullet_scores_submitted_total",
			Help: "Leaderboard submissions.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mullet_active_sessions",
			Help: "Sessions currently held in memory.",
		}),
	}
	reg.MustRegister(r.clicks, r.earned, r.purchases, r.targets, r.wins, r.winTime, r.submits, r.sessions)
	return r
}

func (r *Recorder) Notify(ev events.Event) {
	switch ev.Type {
	case events.TypeClick:
		r.clicks.Inc()
		r.earned.WithLabelValues("click").Add(float64(ev.Amount))
	case events.TypeAutoAccrued:
		r.earned.WithLabelValues("auto").Add(float64(ev.Amount))
	case events.TypePurchased:
		r.purchases.WithLabelValues(ev.UpgradeID).Inc()
	case events.TypeTargetSpawned:
		r.targets.WithLabelValues("spawned").Inc()
	case events.TypeTargetHit:
		r.targets.WithLabelValues("hit").Inc()
		r.earned.WithLabelValues("target").Add(float64(ev.Amount))
	case events.TypeTargetRemoved:
		r.targets.WithLabelValues("removed").Inc()
	case events.TypeGameWon:
		r.wins.Inc()
		r.winTime.Observe(ev.Elapsed)
	case events.TypeScoreSubmitted:
		r.submits.Inc()
	}
}

func (r *Recorder) SessionOpened() { r.sessions.Inc() }
func (r *Recorder) SessionClosed() { r.sessions.Dec() }

// Handler serves the series gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

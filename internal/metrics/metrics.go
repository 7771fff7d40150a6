package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salita/internal/nlp"
)

const namespace = "salita"

// Metrics owns a private registry and the collectors recorded into it.
type Metrics struct {
	registry        *prometheus.Registry
	gamesRecorded   *prometheus.CounterVec
	xpAwarded       *prometheus.CounterVec
	questsCompleted prometheus.Counter
	usersCreated    prometheus.Counter
	nlpAnswers      *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New builds and registers every collector, plus the Go runtime and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gamesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_recorded_total",
			Help:      "Game rounds recorded, by game type and whether the score was perfect.",
		}, []string{"game", "perfect"}),
		xpAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xp_awarded_total",
			Help:      "Experience points awarded, by bucket (game type or quests).",
		}, []string{"bucket"}),
		questsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quests_completed_total",
			Help:      "Daily quests completed.",
		}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Learners registered.",
		}),
		nlpAnswers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nlp_answers_total",
			Help:      "NLP answers, by operation and whether the external service or the local fallback produced them.",
		}, []string{"operation", "source"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route pattern, and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.gamesRecorded,
		m.xpAwarded,
		m.questsCompleted,
		m.usersCreated,
		m.nlpAnswers,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ObserveNLP implements nlp.Recorder.
func (m *Metrics) ObserveNLP(operation string, source nlp.Source) {
	if m == nil {
		return
	}
	m.nlpAnswers.WithLabelValues(operation, string(source)).Inc()
}

// ObserveGame records one finished round.
func (m *Metrics) ObserveGame(game string, perfect bool, xp, questXP, questsCompleted int) {
	if m == nil {
		return
	}
	m.gamesRecorded.WithLabelValues(game, strconv.FormatBool(perfect)).Inc()
	if xp > 0 {
		m.xpAwarded.WithLabelValues(game).Add(float64(xp))
	}
	if questXP > 0 {
		m.xpAwarded.WithLabelValues("quests").Add(float64(questXP))
	}
	if questsCompleted > 0 {
		m.questsCompleted.Add(float64(questsCompleted))
	}
}

// ObserveUserCreated counts a new learner.
func (m *Metrics) ObserveUserCreated() {
	if m == nil {
		return
	}
	m.usersCreated.Inc()
}

// ObserveHTTP records a served request. route is the mux pattern, not the raw
// path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

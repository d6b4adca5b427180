package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/bankadmin/internal/platform/logger"
)

// Metrics holds the console's Prometheus series. A nil *Metrics is valid and
// records nothing, so callers never need to check whether metrics are enabled.
type Metrics struct {
	pageRequests    *CounterVec
	pageLatency     *HistogramVec
	pageInflight    *Gauge
	upstreamCalls   *CounterVec
	upstreamLatency *HistogramVec
	logins          *CounterVec
	accountActions  *CounterVec
	transactions    *CounterVec
	redisUp         *Gauge
	redisPing       *Gauge
}

var latencyBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

func NewMetrics() *Metrics {
	return &Metrics{
		pageRequests: NewCounterVec("bankadmin_http_requests_total", "Console HTTP requests by method/route/status.", []string{"method", "route", "status"}),
		pageLatency: NewHistogramVec(
			"bankadmin_http_request_duration_seconds",
			"Console HTTP request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			latencyBuckets,
		),
		pageInflight:  NewGauge("bankadmin_http_inflight_requests", "In-flight console HTTP requests."),
		upstreamCalls: NewCounterVec("bankadmin_bankapi_requests_total", "Banking API calls by method/endpoint/status.", []string{"method", "endpoint", "status"}),
		upstreamLatency: NewHistogramVec(
			"bankadmin_bankapi_request_duration_seconds",
			"Banking API call latency in seconds by method/endpoint.",
			[]string{"method", "endpoint"},
			latencyBuckets,
		),
		logins:         NewCounterVec("bankadmin_logins_total", "Operator login attempts by outcome.", []string{"outcome"}),
		accountActions: NewCounterVec("bankadmin_account_actions_total", "Account lifecycle actions by action/outcome.", []string{"action", "outcome"}),
		transactions:   NewCounterVec("bankadmin_transactions_total", "Credit/debit postings by kind/outcome.", []string{"kind", "outcome"}),
		redisUp:        NewGauge("bankadmin_session_redis_up", "1 when the redis session store answers PING."),
		redisPing:      NewGauge("bankadmin_session_redis_ping_seconds", "Latency of the last redis PING."),
	}
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(m.WriteHTTP)
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	series := []collector{
		m.pageRequests,
		m.pageLatency,
		m.pageInflight,
		m.upstreamCalls,
		m.upstreamLatency,
		m.logins,
		m.accountActions,
		m.transactions,
		m.redisUp,
		m.redisPing,
	}
	for _, s := range series {
		if err := s.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveRequest(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.pageRequests.Inc(method, route, code)
	m.pageLatency.Observe(dur.Seconds(), method, route, code)
}

func (m *Metrics) InflightInc() {
	if m == nil {
		return
	}
	m.pageInflight.Inc()
}

func (m *Metrics) InflightDec() {
	if m == nil {
		return
	}
	m.pageInflight.Dec()
}

// ObserveUpstream records one banking API call. status is 0 when the request
// never produced a response.
func (m *Metrics) ObserveUpstream(method, endpoint string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.upstreamCalls.Inc(method, endpoint, code)
	m.upstreamLatency.Observe(dur.Seconds(), method, endpoint)
}

func (m *Metrics) IncLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.Inc(outcome)
}

func (m *Metrics) IncAccountAction(action, outcome string) {
	if m == nil {
		return
	}
	m.accountActions.Inc(action, outcome)
}

func (m *Metrics) IncTransaction(kind, outcome string) {
	if m == nil {
		return
	}
	m.transactions.Inc(kind, outcome)
}

// StartRedisCollector pings the session redis on an interval until ctx ends.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil && ctx.Err() == nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

package webclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "wifinfo_"

const (
	resultSuccess   = "success"
	resultStatus    = "status"
	resultTransport = "transport"
)

// Stat is dispatch metrics. Nil *Stat is valid and records nothing.
type Stat struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewStat registers collectors in reg, nil reg leaves them unregistered.
func NewStat(reg prometheus.Registerer) (*Stat, error) {
	s := &Stat{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dispatch_total",
				Help: "HTTP dispatches by sink, result and status code",
			},
			[]string{"sink", "result", "code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dispatch_duration_seconds",
				Help:    "HTTP dispatch wall clock time",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"sink"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{s.requests, s.latency} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Stat) observe(sink string, status int, err error, d time.Duration) {
	if s == nil {
		return
	}
	result := resultSuccess
	switch {
	case err != nil:
		result = resultTransport
	case !Success(status):
		result = resultStatus
	}
	s.requests.WithLabelValues(sink, result, strconv.Itoa(status)).Inc()
	s.latency.WithLabelValues(sink).Observe(d.Seconds())
}

// Requests returns counter for tests and diagnostics.
func (s *Stat) Requests(sink, result string, status int) prometheus.Counter {
	return s.requests.WithLabelValues(sink, result, strconv.Itoa(status))
}

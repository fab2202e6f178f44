package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// LogSink writes each event as a structured log line
func LogSink(log *logrus.Entry) Sink {
	return func(e Event) {
		fields := logrus.Fields{"event": e.Name, "event_id": e.ID}
		for k, v := range e.Params {
			fields["param_"+k] = v
		}
		log.WithFields(fields).Info("Analytics event")
	}
}

// Metrics counts events per name
type Metrics struct {
	events *prometheus.CounterVec
}

// NewMetrics registers the event counter on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		events: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "ong_client_analytics_events_total",
			Help: "Total number of analytics events by name",
		}, []string{"name"}),
	}
}

// Sink returns the sink feeding the counter
func (m *Metrics) Sink() Sink {
	return func(e Event) {
		m.events.WithLabelValues(e.Name).Inc()
	}
}

// Count returns the counter for one event name
func (m *Metrics) Count(name string) prometheus.Counter {
	return m.events.WithLabelValues(name)
}

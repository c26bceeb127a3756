package gallery

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts lifecycle outcomes and media blob traffic.
// A nil *Metrics records nothing.
type Metrics struct {
	operations      *prometheus.CounterVec
	blobsWritten    prometheus.Counter
	blobsDeleted    prometheus.Counter
	cleanupFailures *prometheus.CounterVec
}

// NewMetrics creates gallery collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gallery",
				Name:      "operations_total",
				Help:      "Gallery lifecycle operations by operation and result kind.",
			},
			[]string{"operation", "result"},
		),
		blobsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "blobs_written_total",
			Help:      "Media blobs written to storage.",
		}),
		blobsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "blobs_deleted_total",
			Help:      "Media blobs deleted from storage.",
		}),
		cleanupFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gallery",
				Name:      "cleanup_failures_total",
				Help:      "Best-effort blob deletions that failed and were left as orphans.",
			},
			[]string{"operation"},
		),
	}

	for _, c := range []prometheus.Collector{m.operations, m.blobsWritten, m.blobsDeleted, m.cleanupFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = KindOf(err)
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) written() {
	if m != nil {
		m.blobsWritten.Inc()
	}
}

func (m *Metrics) deleted() {
	if m != nil {
		m.blobsDeleted.Inc()
	}
}

func (m *Metrics) cleanupFailed(operation string) {
	if m != nil {
		m.cleanupFailures.WithLabelValues(operation).Inc()
	}
}

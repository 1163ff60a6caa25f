package metrics

import "github.com/prometheus/client_golang/prometheus"

// Cart operations recorded by CartMetrics.
const (
	CartOpAdd         = "add"
	CartOpRemove      = "remove"
	CartOpSetQuantity = "set_quantity"
	CartOpClear       = "clear"
)

// CartMetrics records cart mutations and persistence failures.
type CartMetrics struct {
	mutations       *prometheus.CounterVec
	persistFailures prometheus.Counter
	loadFailures    prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart writes to storage that failed and were dropped.",
	})
	loadFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_load_failures_total",
		Help: "Cart reads that failed or returned malformed data.",
	})
	reg.MustRegister(mutations, persistFailures, loadFailures)
	return &CartMetrics{
		mutations:       mutations,
		persistFailures: persistFailures,
		loadFailures:    loadFailures,
	}
}

func (m *CartMetrics) IncMutation(op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *CartMetrics) IncPersistFailure() {
	if m == nil || m.persistFailures == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *CartMetrics) IncLoadFailure() {
	if m == nil || m.loadFailures == nil {
		return
	}
	m.loadFailures.Inc()
}

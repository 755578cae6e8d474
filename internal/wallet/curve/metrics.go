package curve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	stageMaster      = "master"
	stageChild       = "child"
	stagePublicChild = "public_child"
)

var scalarRetries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hdkey",
	Name:      "invalid_scalar_retries_total",
	Help:      "Number of derivation rounds discarded because the resulting scalar was out of range.",
}, []string{"curve", "stage"})

// ScalarRetries exposes the retry counter for the given curve and stage, mostly for tests.
func ScalarRetries(t Type, stage string) prometheus.Counter {
	return scalarRetries.WithLabelValues(string(t), stage)
}

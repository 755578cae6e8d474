package hdkey

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindMaster       = "master"
	kindPrivateChild = "private_child"
	kindPublicChild  = "public_child"
)

var derivations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hdkey",
	Name:      "derivations_total",
	Help:      "Number of HD nodes derived, by curve and derivation kind.",
}, []string{"curve", "kind"})

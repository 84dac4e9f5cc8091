package flatpress

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type appMetrics struct {
	postsCreated prometheus.Counter
	storeErrors  *prometheus.CounterVec
	frozenPages  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *appMetrics {
	factory := promauto.With(reg)
	return &appMetrics{
		postsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flatpress",
			Name:      "posts_created_total",
			Help:      "Posts published through the authoring form.",
		}),
		storeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flatpress",
			Name:      "store_errors_total",
			Help:      "Post store operations that failed with the store unavailable.",
		}, []string{"op"}),
		frozenPages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flatpress",
			Name:      "frozen_pages_total",
			Help:      "Pages written by freeze runs.",
		}),
	}
}

package probe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iprd/radiodir/pkg/catalog"
)

var probesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "radiodir",
	Name:      "probes_total",
	Help:      "Stream probe outcomes for the current run.",
}, []string{"outcome"})

func observe(r catalog.Result) {
	if r.Working {
		probesTotal.WithLabelValues("working").Inc()
	} else {
		probesTotal.WithLabelValues("failed").Inc()
	}
}

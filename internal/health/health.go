// Package health exposes the quad-store adapter's connectivity state
// as a Prometheus gauge.
package health

import (
	"github.com/prometheus/client_golang/prometheus"

	"ldpstore/internal/store"
)

// Probe reports the backend as UP iff it is non-nil and not closed. No I/O.
type Probe struct {
	qs store.QuadStore
}

func NewProbe(qs store.QuadStore) *Probe {
	return &Probe{qs: qs}
}

// IsUp is the boolean probe itself.
func (p *Probe) IsUp() bool {
	return p.qs != nil && p.qs.IsOpen()
}

// GaugeFunc returns a prometheus.GaugeFunc reading IsUp on every scrape,
// registered by internal/di.Container under the name ldp_store_up.
func (p *Probe) GaugeFunc() prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ldp_store_up",
		Help: "1 if the quad store adapter is open and reachable, 0 otherwise.",
	}, func() float64 {
		if p.IsUp() {
			return 1
		}
		return 0
	})
}

package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IncrementalCounter counts events by label values.
type IncrementalCounter interface {
	Increment(val ...string)
}

type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) IncrementalCounter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// Recorder groups the counters of the navigation engine.
type Recorder struct {
	// Resolutions counts activation passes by outcome.
	Resolutions IncrementalCounter

	// Clicks counts menu clicks by kind.
	Clicks IncrementalCounter
}

// NewRecorder registers the navigation counters with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	return &Recorder{
		Resolutions: NewCounterWithRegistry(reg, "navmenu_resolutions_total",
			"Menu activation passes by outcome.", "outcome"),
		Clicks: NewCounterWithRegistry(reg, "navmenu_clicks_total",
			"Menu item clicks by kind.", "kind"),
	}
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

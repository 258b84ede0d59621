package dashlocal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// each container has its own registry (served at /metrics) so several
// containers can live in one process.
type containerMetrics struct {
	Registry     *prometheus.Registry
	UiLoads      prometheus.Counter
	ActiveUis    prometheus.Gauge
	Signals      *prometheus.CounterVec
	DrainActions prometheus.Counter
	Streams      prometheus.Gauge
}

func makeContainerMetrics() *containerMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &containerMetrics{
		Registry: reg,
		UiLoads: factory.NewCounter(prometheus.CounterOpts{
			Name: "dashdialog_ui_loads_total",
			Help: "Total number of page loads (UIs created)",
		}),
		ActiveUis: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashdialog_active_uis",
			Help: "Number of live UIs",
		}),
		Signals: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashdialog_signals_total",
			Help: "Browser signals by name and result error code",
		}, []string{"signal", "errcode"}),
		DrainActions: factory.NewCounter(prometheus.CounterOpts{
			Name: "dashdialog_drained_actions_total",
			Help: "Actions delivered to browsers through drain or stream",
		}),
		Streams: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashdialog_active_streams",
			Help: "Number of open websocket action streams",
		}),
	}
}

package debugger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts debugger activity.
type Metrics struct {
	Pauses         *prometheus.CounterVec
	BreakpointHits prometheus.Counter
	EvalErrors     prometheus.Counter
	Commands       *prometheus.CounterVec
}

// NewMetrics creates the debugger metrics and registers them with reg. A nil
// reg creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Pauses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "risordbg_pauses_total",
				Help: "Total pauses by reason",
			},
			[]string{"reason"},
		),
		BreakpointHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "risordbg_breakpoint_hits_total",
			Help: "Total pauses caused by breakpoints",
		}),
		EvalErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "risordbg_eval_errors_total",
			Help: "Total errors from code evaluated at the prompt",
		}),
		Commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "risordbg_commands_total",
				Help: "Total debugger commands by name",
			},
			[]string{"command"},
		),
	}
}

func (m *Metrics) recordPause(reason PauseReason) {
	if m == nil {
		return
	}
	m.Pauses.WithLabelValues(reason.String()).Inc()
	if reason == ReasonBreakpoint {
		m.BreakpointHits.Inc()
	}
}

func (m *Metrics) recordEvalError() {
	if m == nil {
		return
	}
	m.EvalErrors.Inc()
}

func (m *Metrics) recordCommand(kind CommandKind) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(kind.String()).Inc()
}

package observe

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "codepair_active_sessions",
		Help: "Number of live sessions in the registry",
	})

	openConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "codepair_open_connections",
		Help: "Number of open WebSocket connections",
	})

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codepair_events_total",
			Help: "Total inbound events by type",
		},
		[]string{"type"},
	)

	droppedMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "codepair_dropped_messages_total",
		Help: "Total outbound messages dropped due to client backpressure",
	})

	sessionsReapedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "codepair_sessions_reaped_total",
		Help: "Total empty sessions deleted after the grace interval",
	})

	sessionsRescuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "codepair_sessions_rescued_total",
		Help: "Total sessions rescued by a rejoin before expiry",
	})

	joinErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "codepair_join_errors_total",
		Help: "Total join attempts against unknown sessions",
	})
)

func init() {
	prometheus.MustRegister(
		activeSessions,
		openConnections,
		eventsTotal,
		droppedMessagesTotal,
		sessionsReapedTotal,
		sessionsRescuedTotal,
		joinErrorsTotal,
	)
}

func AddSessions(delta float64)    { activeSessions.Add(delta) }
func AddConnections(delta float64) { openConnections.Add(delta) }
func IncEvent(kind string)         { eventsTotal.WithLabelValues(kind).Inc() }
func IncDropped()                  { droppedMessagesTotal.Inc() }
func IncReaped()                   { sessionsReapedTotal.Inc() }
func IncRescued()                  { sessionsRescuedTotal.Inc() }
func IncJoinError()                { joinErrorsTotal.Inc() }

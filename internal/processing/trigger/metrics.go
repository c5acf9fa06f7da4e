package trigger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var clicksReceived = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "linkly_clicks_received_total",
		Help: "Inbound Linkly click webhooks by node and outcome",
	},
	[]string{"node", "outcome"},
)

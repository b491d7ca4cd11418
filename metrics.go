package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mcbot_polls_total",
		Help: "Total number of poll cycles run",
	})

	fetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mcbot_fetch_failures_total",
		Help: "Poll cycles where the server status could not be determined",
	})

	stateChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcbot_state_changes_total",
			Help: "Observed online/offline transitions",
		},
		[]string{"state"},
	)

	broadcastMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcbot_broadcast_messages_total",
			Help: "Change notifications sent to announcement channels",
		},
		[]string{"result"},
	)

	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcbot_commands_total",
			Help: "Slash commands handled",
		},
		[]string{"command"},
	)

	serverOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mcbot_server_online",
		Help: "1 when the last successful poll saw the server online",
	})
)

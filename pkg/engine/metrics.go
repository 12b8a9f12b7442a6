package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
)

var (
	// inputsTotal counts calculator inputs by symbol and result
	inputsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terncalc_inputs_total",
		Help: "Calculator inputs by symbol and result",
	}, []string{"symbol", "result"})

	// historyTotal counts undo/redo requests by direction and result
	historyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terncalc_history_total",
		Help: "Undo and redo requests by direction and result",
	}, []string{"direction", "result"})

	// scriptsTotal counts batch-evaluated scripts by result
	scriptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terncalc_scripts_total",
		Help: "Scripts evaluated by the batch engine, by result",
	}, []string{"result"})
)

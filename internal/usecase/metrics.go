package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commitResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "freshcart",
			Name:      "order_commits_total",
			Help:      "Order commit attempts by reason code",
		},
		[]string{"result"},
	)

	stockConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "freshcart",
			Name:      "inventory_decrement_conflicts_total",
			Help:      "Conditional stock decrements that lost the race",
		},
	)

	paymentPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "freshcart",
			Name:      "payment_polls_total",
			Help:      "Gateway status polls by outcome",
		},
		[]string{"outcome"},
	)
)

package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 도메인 메트릭. HTTP 계층 공통 메트릭은 echoprometheus가 담당한다.
var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "membership_server",
		Name:      "registrations_total",
		Help:      "Total number of successful member registrations.",
	})

	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "membership_server",
		Name:      "logins_total",
		Help:      "Total number of login attempts by outcome.",
	}, []string{"outcome"})

	invitationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "membership_server",
		Name:      "invitations_total",
		Help:      "Total number of invitations sent.",
	})
)

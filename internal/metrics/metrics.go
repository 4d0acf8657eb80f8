package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Signups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waitlist_signups_total",
		Help: "Signup submissions by result.",
	}, []string{"result"})

	SMSAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waitlist_sms_attempts_total",
		Help: "Outbound SMS delivery attempts by result.",
	}, []string{"result"})

	Replies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waitlist_replies_total",
		Help: "Inbound SMS replies by source.",
	}, []string{"source"})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsCreated counts booking requests by outcome: confirmed,
	// waitlisted, or rejected.
	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_requests_total",
			Help: "Booking creation requests by outcome",
		},
		[]string{"outcome"},
	)

	// SlotReservationConflicts counts reservation attempts that lost the
	// capacity race and were diverted to the waitlist.
	SlotReservationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slot_reservation_conflicts_total",
			Help: "Reservations refused because capacity was exhausted",
		},
	)

	// RuleApplications counts pricing rule applications by rule type.
	RuleApplications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_rule_applications_total",
			Help: "Pricing rule applications by rule type",
		},
		[]string{"rule_type"},
	)

	// WaitlistNotifications counts waitlist notifications by channel.
	WaitlistNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_notifications_total",
			Help: "Waitlist notifications sent by channel",
		},
		[]string{"channel"},
	)

	// BookingCreateDuration tracks the latency of the booking transaction.
	BookingCreateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_create_duration_seconds",
			Help:    "Duration of the booking creation transaction in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
	)
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	holdOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_hold_operations_total",
			Help: "Seat hold batch outcomes",
		},
		[]string{"outcome"},
	)

	casConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seat_version_conflicts_total",
			Help: "Seat writes lost to a concurrent version change",
		},
	)

	seatsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seats_sold_total",
			Help: "Seats transitioned to SOLD",
		},
	)

	bookingsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_completed_total",
			Help: "Bookings transitioned to COMPLETED",
		},
	)

	resalePurchases = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resale_purchases_total",
			Help: "Resale tickets purchased",
		},
	)
)

const (
	OutcomeHeld     = "held"
	OutcomeConflict = "conflict"
	OutcomeRollback = "rollback"
)

func TrackHold(outcome string)  { holdOperations.WithLabelValues(outcome).Inc() }
func TrackCASConflict()         { casConflicts.Inc() }
func TrackSeatsSold(n int)      { seatsSold.Add(float64(n)) }
func TrackBookingCompleted()    { bookingsCompleted.Inc() }
func TrackResalePurchase()      { resalePurchases.Inc() }

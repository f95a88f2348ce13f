/* metrics.go
 * Contains the Prometheus counters for votes, payments, applications and payouts
 * Authors: Zachary Bower
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smallie"

// Metrics holds the counters exported at /metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	votes        *prometheus.CounterVec
	adjustments  *prometheus.CounterVec
	revenue      prometheus.Counter
	payments     *prometheus.CounterVec
	applications *prometheus.CounterVec
	payouts      *prometheus.CounterVec
}

// New registers the counters with registry. A nil registry returns nil.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		return nil
	}
	factory := promauto.With(registry)

	return &Metrics{
		votes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_recorded_total",
			Help:      "Total number of votes recorded, by source",
		}, []string{"source"}),
		adjustments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_adjustments_total",
			Help:      "Total votes added or removed by admin edits, by direction",
		}, []string{"direction"}),
		revenue: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_revenue_usd_total",
			Help:      "Total USD revenue from purchased votes",
		}),
		payments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Total number of payment status transitions",
		}, []string{"rail", "purpose", "status"}),
		applications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_total",
			Help:      "Total number of signups, by outcome",
		}, []string{"status"}),
		payouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_requests_total",
			Help:      "Total number of payout requests opened, by scope",
		}, []string{"scope"}),
	}
}

// VotesRecorded adds count votes from source, and their revenue if they were purchased. Counters only go up, so a
// non-positive count is ignored; admin edits go through VotesAdjusted.
func (m *Metrics) VotesRecorded(source string, count int, revenueUSD float64) {
	if m == nil {
		return
	}
	if count > 0 {
		m.votes.WithLabelValues(source).Add(float64(count))
	}
	if revenueUSD > 0 {
		m.revenue.Add(revenueUSD)
	}
}

// VotesAdjusted counts the size of an admin vote edit under direction "up" or "down"
func (m *Metrics) VotesAdjusted(delta int) {
	if m == nil || delta == 0 {
		return
	}
	direction := "up"
	if delta < 0 {
		direction, delta = "down", -delta
	}
	m.adjustments.WithLabelValues(direction).Add(float64(delta))
}

// PaymentTransition counts a payment reaching status
func (m *Metrics) PaymentTransition(rail string, purpose string, status string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(rail, purpose, status).Inc()
}

// Application counts a signup reaching status
func (m *Metrics) Application(status string) {
	if m == nil {
		return
	}
	m.applications.WithLabelValues(status).Inc()
}

// PayoutOpened counts an opened payout request
func (m *Metrics) PayoutOpened(scope string) {
	if m == nil {
		return
	}
	m.payouts.WithLabelValues(scope).Inc()
}

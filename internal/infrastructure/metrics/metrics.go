package metrics

import (
	"strconv"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tracking dispatch outcomes.
const (
	TrackingSent    = "sent"
	TrackingSkipped = "skipped"
	TrackingFailed  = "failed"
	TrackingDropped = "dropped"
)

// CheckoutMetrics holds the counters of the charge and settlement flow
type CheckoutMetrics struct {
	// Charges
	ChargesCreatedTotal       *prometheus.CounterVec
	ChargesCreatedAmountTotal *prometheus.CounterVec
	ChargeFailuresTotal       *prometheus.CounterVec
	ChargeStatusTotal         *prometheus.CounterVec

	// Settlement
	PaymentsConfirmedTotal       *prometheus.CounterVec
	PaymentsConfirmedAmountTotal *prometheus.CounterVec
	DuplicateConfirmationsTotal  prometheus.Counter
	SettlementDuration           prometheus.Histogram

	// Commission split
	GatewayFeeTotal       *prometheus.CounterVec
	PlatformFeeTotal      *prometheus.CounterVec
	SellerCommissionTotal *prometheus.CounterVec

	CartsRecoveredTotal *prometheus.CounterVec

	TrackingDispatchTotal *prometheus.CounterVec
}

// NewCheckoutMetrics registers the collectors with reg. A nil reg leaves them unregistered.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	factory := promauto.With(reg)
	return &CheckoutMetrics{
		ChargesCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_charges_created_total",
				Help: "PIX charges issued by the gateway",
			},
			[]string{"seller_id", "upsell"},
		),
		ChargesCreatedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_charges_created_amount_total",
				Help: "Sum of issued charge values in BRL",
			},
			[]string{"seller_id"},
		),
		ChargeFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_charge_failures_total",
				Help: "Charge operations that returned a failure, by kind",
			},
			[]string{"operation", "kind"},
		),
		ChargeStatusTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_charge_status_transitions_total",
				Help: "Transactions moved to a terminal status",
			},
			[]string{"status"},
		),

		PaymentsConfirmedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_payments_confirmed_total",
				Help: "Transactions confirmed as paid",
			},
			[]string{"seller_id", "upsell"},
		),
		PaymentsConfirmedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_payments_confirmed_amount_total",
				Help: "Sum of confirmed transaction values in BRL",
			},
			[]string{"seller_id"},
		),
		DuplicateConfirmationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "checkout_duplicate_confirmations_total",
				Help: "Confirmations of transactions that were already paid",
			},
		),
		SettlementDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "checkout_settlement_duration_seconds",
				Help:    "Time spent settling one confirmed payment",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),

		GatewayFeeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_gateway_fee_total",
				Help: "Gateway fees on settled sales in BRL",
			},
			[]string{"seller_id"},
		),
		PlatformFeeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_platform_fee_total",
				Help: "Platform fees on settled sales in BRL",
			},
			[]string{"seller_id"},
		),
		SellerCommissionTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_seller_commission_total",
				Help: "Seller net commission on settled sales in BRL",
			},
			[]string{"seller_id"},
		),

		CartsRecoveredTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_carts_recovered_total",
				Help: "Abandoned carts recovered by a paid sale",
			},
			[]string{"seller_id"},
		),

		TrackingDispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_tracking_dispatch_total",
				Help: "Tracking events by outcome",
			},
			[]string{"status", "result"},
		),
	}
}

func reais(cents int64) float64 {
	return float64(cents) / 100
}

func (m *CheckoutMetrics) RecordChargeCreated(sellerID string, valueInCents int64, isUpsell bool) {
	m.ChargesCreatedTotal.WithLabelValues(sellerID, strconv.FormatBool(isUpsell)).Inc()
	m.ChargesCreatedAmountTotal.WithLabelValues(sellerID).Add(reais(valueInCents))
}

func (m *CheckoutMetrics) RecordChargeFailure(operation string, kind domain.FailureKind) {
	m.ChargeFailuresTotal.WithLabelValues(operation, string(kind)).Inc()
}

func (m *CheckoutMetrics) RecordStatusTransition(status domain.TransactionStatus) {
	m.ChargeStatusTotal.WithLabelValues(string(status)).Inc()
}

func (m *CheckoutMetrics) RecordPaymentConfirmed(sellerID string, valueInCents int64, isUpsell bool) {
	m.PaymentsConfirmedTotal.WithLabelValues(sellerID, strconv.FormatBool(isUpsell)).Inc()
	m.PaymentsConfirmedAmountTotal.WithLabelValues(sellerID).Add(reais(valueInCents))
}

// RecordCommission adds a sale's split. Counters only go up, so a negative seller share is skipped.
func (m *CheckoutMetrics) RecordCommission(sellerID string, c domain.Commission) {
	m.GatewayFeeTotal.WithLabelValues(sellerID).Add(reais(c.GatewayFeeInCents))
	if c.PlatformFeeInCents > 0 {
		m.PlatformFeeTotal.WithLabelValues(sellerID).Add(reais(c.PlatformFeeInCents))
	}
	if c.UserCommissionInCents > 0 {
		m.SellerCommissionTotal.WithLabelValues(sellerID).Add(reais(c.UserCommissionInCents))
	}
}

func (m *CheckoutMetrics) RecordDuplicateConfirmation() {
	m.DuplicateConfirmationsTotal.Inc()
}

func (m *CheckoutMetrics) ObserveSettlementDuration(seconds float64) {
	m.SettlementDuration.Observe(seconds)
}

func (m *CheckoutMetrics) RecordCartRecovered(sellerID string) {
	m.CartsRecoveredTotal.WithLabelValues(sellerID).Inc()
}

func (m *CheckoutMetrics) RecordTrackingDispatch(status, result string) {
	m.TrackingDispatchTotal.WithLabelValues(status, result).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics provides observability for loans and the payment ledger.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LoansSubmitted   prometheus.Counter
	LoanDecisions    *prometheus.CounterVec
	PaymentsRecorded prometheus.Counter
	PaymentVolume    prometheus.Counter
	Registrations    *prometheus.CounterVec
	Attachments      *prometheus.CounterVec
}

// New registers all metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoansSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_loans_submitted_total",
			Help: "Loan applications created",
		}),
		LoanDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loanledger_loan_decisions_total",
			Help: "Loan status transitions by resulting status",
		}, []string{"status"}),
		PaymentsRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_payments_recorded_total",
			Help: "Payments booked on the ledger",
		}),
		PaymentVolume: f.NewCounter(prometheus.CounterOpts{
			Name: "loanledger_payment_amount_total",
			Help: "Sum of booked payment amounts",
		}),
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loanledger_registrations_total",
			Help: "Register-and-apply attempts by result",
		}, []string{"result"}), // result: "ok", "failed"
		Attachments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loanledger_attachments_total",
			Help: "Best-effort attachment uploads by kind and result",
		}, []string{"kind", "result"}),
	}
}

func (m *Metrics) LoanSubmitted() {
	if m != nil {
		m.LoansSubmitted.Inc()
	}
}

func (m *Metrics) LoanDecided(status string) {
	if m != nil {
		m.LoanDecisions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) PaymentRecorded(amount decimal.Decimal) {
	if m != nil {
		m.PaymentsRecorded.Inc()
		m.PaymentVolume.Add(amount.InexactFloat64())
	}
}

func (m *Metrics) Registration(ok bool) {
	if m != nil {
		result := "failed"
		if ok {
			result = "ok"
		}
		m.Registrations.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) Attachment(kind string, saved bool) {
	if m != nil {
		result := "rejected"
		if saved {
			result = "saved"
		}
		m.Attachments.WithLabelValues(kind, result).Inc()
	}
}

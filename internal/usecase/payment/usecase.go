package payment

import (
	"context"
	"errors"
	"time"

	"loan-ledger-service/internal/domain/access"
	"loan-ledger-service/internal/domain/apperror"
	"loan-ledger-service/internal/domain/event"
	"loan-ledger-service/internal/domain/loan"
	domain "loan-ledger-service/internal/domain/payment"
	"loan-ledger-service/internal/domain/uow"
	"loan-ledger-service/internal/infrastructure/metrics"
	"loan-ledger-service/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	loans    loan.Repository
	payments domain.Repository
	uow      uow.UnitOfWork
	events   event.Publisher
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Usecase)

func WithLogger(l *zap.Logger) Option { return func(u *Usecase) { u.log = l } }
func WithMetrics(m *metrics.Metrics) Option { return func(u *Usecase) { u.metrics = m } }
func WithPublisher(p event.Publisher) Option { return func(u *Usecase) { u.events = p } }
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func NewUsecase(loans loan.Repository, payments domain.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{loans: loans, payments: payments, uow: tx, events: event.Nop{}, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(u)
	}
	if u.log == nil {
		u.log = zap.NewNop()
	}
	if u.events == nil {
		u.events = event.Nop{}
	}
	return u
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(what)
	}
	return err
}

// Record books a payment. The loan row stays locked from the authorization
// check until the ledger update commits, so concurrent payments on one loan
// serialize and amount paid always equals the sum of its payments.
func (u *Usecase) Record(ctx context.Context, actor access.Actor, in RecordInput) (*Receipt, error) {
	if err := loan.CheckAmount("amount", in.Amount); err != nil {
		return nil, err
	}

	var (
		p      *domain.Payment
		l      *loan.Loan
		effect loan.PaymentEffect
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, locked *loan.Loan) error {
		if err := access.Authorize(actor, locked, access.ActionPay); err != nil {
			return err
		}
		var err error
		if effect, err = locked.ApplyPayment(in.Amount); err != nil {
			return err
		}
		p = &domain.Payment{
			PaymentID:    id.NewID32(),
			LoanID:       locked.ID,
			Amount:       in.Amount,
			PayerContact: in.PayerContact,
			CreatedAt:    u.now().UTC(),
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		if err := r.Loans.UpdateLedger(ctx, locked); err != nil {
			return err
		}
		l = locked
		return nil
	})
	if err != nil {
		if errors.Is(err, loan.ErrStaleStatus) {
			return nil, apperror.New(apperror.KindLoanNotPayable, "status", "loan no longer accepts payments")
		}
		return nil, notFound(err, "loan")
	}

	u.metrics.PaymentRecorded(in.Amount)
	u.log.Info("payment recorded",
		zap.String("payment_id", p.PaymentID),
		zap.String("loan_id", l.LoanID),
		zap.String("amount", in.Amount.String()),
		zap.String("outstanding_balance", effect.OutstandingBalance.String()),
		zap.Bool("overpaid", effect.Overpaid))
	u.events.Publish(ctx, event.Event{
		Type:        event.PaymentRecorded,
		LoanID:      l.LoanID,
		ApplicantID: actor.ApplicantID,
		PaymentID:   p.PaymentID,
		Amount:      in.Amount.StringFixed(2),
		Outstanding: effect.OutstandingBalance.StringFixed(2),
	})

	return &Receipt{
		Payment:            toDTO(p, l.LoanID),
		AmountPaid:         effect.AmountPaid,
		OutstandingBalance: effect.OutstandingBalance,
		Overpaid:           effect.Overpaid,
		Settled:            l.Settled(),
	}, nil
}

func (u *Usecase) loadLoan(ctx context.Context, actor access.Actor, loanID string) (*loan.Loan, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, notFound(err, "loan")
	}
	if err := access.Authorize(actor, l, access.ActionRead); err != nil {
		return nil, err
	}
	return l, nil
}

// History lists a loan's payments oldest first.
func (u *Usecase) History(ctx context.Context, actor access.Actor, loanID string) ([]PaymentDTO, error) {
	l, err := u.loadLoan(ctx, actor, loanID)
	if err != nil {
		return nil, err
	}
	ps, err := u.payments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentDTO, 0, len(ps))
	for i := range ps {
		out = append(out, toDTO(&ps[i], l.LoanID))
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, actor access.Actor, paymentID string) (*PaymentDTO, error) {
	p, err := u.payments.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, notFound(err, "payment")
	}
	if err := access.Authorize(actor, p, access.ActionRead); err != nil {
		return nil, err
	}
	dto := toDTO(p, "")
	return &dto, nil
}

// List returns every payment for admins and payments on the actor's loans otherwise.
func (u *Usecase) List(ctx context.Context, actor access.Actor) ([]PaymentDTO, error) {
	var (
		ps  []domain.Payment
		err error
	)
	if actor.IsAdmin {
		ps, err = u.payments.List(ctx)
	} else {
		ps, err = u.payments.ListByApplicant(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]PaymentDTO, 0, len(ps))
	for i := range ps {
		out = append(out, toDTO(&ps[i], ""))
	}
	return out, nil
}

// Reconcile recomputes the payment sum for a loan. Admin only.
func (u *Usecase) Reconcile(ctx context.Context, actor access.Actor, loanID string) (*Reconciliation, error) {
	if !actor.IsAdmin {
		return nil, apperror.Authorization("reconciliation is restricted to administrators")
	}
	l, err := u.loadLoan(ctx, actor, loanID)
	if err != nil {
		return nil, err
	}
	ps, err := u.payments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, p := range ps {
		total = total.Add(p.Amount)
	}
	drift := l.AmountPaid.Sub(total)
	if !drift.IsZero() {
		u.log.Warn("ledger drift",
			zap.String("loan_id", l.LoanID),
			zap.String("amount_paid", l.AmountPaid.String()),
			zap.String("payments_total", total.String()))
	}
	return &Reconciliation{
		LoanID:        l.LoanID,
		AmountPaid:    l.AmountPaid,
		PaymentsTotal: total,
		PaymentCount:  len(ps),
		Drift:         drift,
		Consistent:    drift.IsZero(),
	}, nil
}

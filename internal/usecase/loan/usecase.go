package loan

import (
	"context"
	"errors"
	"time"

	"loan-ledger-service/internal/domain/access"
	"loan-ledger-service/internal/domain/amortization"
	"loan-ledger-service/internal/domain/apperror"
	"loan-ledger-service/internal/domain/decision"
	"loan-ledger-service/internal/domain/event"
	"loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/uow"
	"loan-ledger-service/internal/infrastructure/metrics"
	"loan-ledger-service/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	repo      loan.Repository
	decisions decision.Repository
	uow       uow.UnitOfWork
	events    event.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Usecase)

func WithLogger(l *zap.Logger) Option { return func(u *Usecase) { u.log = l } }
func WithMetrics(m *metrics.Metrics) Option { return func(u *Usecase) { u.metrics = m } }
func WithPublisher(p event.Publisher) Option { return func(u *Usecase) { u.events = p } }
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

// WithDecisionLog enables Decisions (the audit trail read side).
func WithDecisionLog(r decision.Repository) Option { return func(u *Usecase) { u.decisions = r } }

// NewUsecase: reads go through repo, every transition through tx.
func NewUsecase(repo loan.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{repo: repo, uow: tx, events: event.Nop{}, log: zap.NewNop(), now: time.Now}
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

func loanErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound("loan")
	case errors.Is(err, loan.ErrStaleStatus):
		return apperror.IllegalTransition("loan status changed concurrently")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.IllegalTransition("decision already recorded")
	}
	return err
}

func (u *Usecase) Submit(ctx context.Context, actor access.Actor, in SubmitInput) (*LoanDTO, error) {
	l, err := loan.NewApplication(actor.ID, in.Draft(), u.now())
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	u.metrics.LoanSubmitted()
	u.log.Info("loan submitted",
		zap.String("loan_id", l.LoanID),
		zap.String("applicant_id", actor.ApplicantID),
		zap.String("requested_amount", l.RequestedAmount.String()))
	u.events.Publish(ctx, event.Event{
		Type:        event.LoanSubmitted,
		LoanID:      l.LoanID,
		ApplicantID: actor.ApplicantID,
		Status:      string(l.Status),
		Amount:      l.RequestedAmount.StringFixed(2),
	})
	return ToDTO(l), nil
}

// Decide applies an administrative decision under the loan's row lock. The
// write is guarded on the status read under that lock, so of two concurrent
// deciders exactly one wins and the other gets an illegal transition.
// A decision the loan's status does not admit is an illegal transition for
// every caller; the approve capability is checked after that.
func (u *Usecase) Decide(ctx context.Context, actor access.Actor, in DecideInput) (*LoanDTO, error) {
	to := loan.Status(in.Decision)
	terms := loan.Terms{
		ApprovedAmount: in.ApprovedAmount,
		AnnualRate:     in.InterestRate,
		TermMonths:     in.TermMonths,
	}

	var out *loan.Loan
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if err := l.CanDecide(to); err != nil {
			return err
		}
		if err := access.Authorize(actor, l, access.ActionApprove); err != nil {
			return err
		}
		from := l.Status
		now := u.now()
		if err := l.Decide(to, terms, now); err != nil {
			return err
		}
		if err := r.Loans.UpdateDecision(ctx, l, from); err != nil {
			return err
		}
		if err := r.Decisions.Create(ctx, &decision.Decision{
			DecisionID: id.NewID32(),
			LoanID:     l.ID,
			Outcome:    l.Status,
			DecidedBy:  actor.ID,
			Note:       in.Note,
			DecidedAt:  now.UTC(),
		}); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, loanErr(err)
	}

	u.afterTransition(ctx, actor, out)
	return ToDTO(out), nil
}

// RespondToContract lets the owner (or an admin) accept or decline the
// approved terms. Declining moves the loan to contract_rejected.
func (u *Usecase) RespondToContract(ctx context.Context, actor access.Actor, loanID string, accept bool) (*LoanDTO, error) {
	var out *loan.Loan
	var transitioned bool
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := access.Authorize(actor, l, access.ActionUpdate); err != nil {
			return err
		}
		from := l.Status
		now := u.now()
		if err := l.RespondToContract(accept, now); err != nil {
			return err
		}
		if err := r.Loans.UpdateDecision(ctx, l, from); err != nil {
			return err
		}
		if l.Status != from {
			transitioned = true
			if err := r.Decisions.Create(ctx, &decision.Decision{
				DecisionID: id.NewID32(),
				LoanID:     l.ID,
				Outcome:    l.Status,
				DecidedBy:  actor.ID,
				Note:       "declined by applicant",
				DecidedAt:  now.UTC(),
			}); err != nil {
				return err
			}
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, loanErr(err)
	}

	if transitioned {
		u.afterTransition(ctx, actor, out)
	} else {
		u.log.Info("contract accepted", zap.String("loan_id", out.LoanID))
	}
	return ToDTO(out), nil
}

func (u *Usecase) afterTransition(ctx context.Context, actor access.Actor, l *loan.Loan) {
	u.metrics.LoanDecided(string(l.Status))
	u.log.Info("loan status changed",
		zap.String("loan_id", l.LoanID),
		zap.String("status", string(l.Status)),
		zap.Uint64("decided_by", actor.ID))
	e := event.Event{
		Type:   event.LoanDecided,
		LoanID: l.LoanID,
		Status: string(l.Status),
	}
	if l.ApprovedAmount.Valid {
		e.Amount = l.ApprovedAmount.Decimal.StringFixed(2)
	}
	u.events.Publish(ctx, e)
}

func (u *Usecase) Get(ctx context.Context, actor access.Actor, loanID string) (*LoanDTO, error) {
	l, err := u.load(ctx, actor, loanID)
	if err != nil {
		return nil, err
	}
	return ToDTO(l), nil
}

func (u *Usecase) load(ctx context.Context, actor access.Actor, loanID string) (*loan.Loan, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, loanErr(err)
	}
	if err := access.Authorize(actor, l, access.ActionRead); err != nil {
		return nil, err
	}
	return l, nil
}

// List returns every loan for admins and the actor's own loans otherwise.
func (u *Usecase) List(ctx context.Context, actor access.Actor) ([]LoanDTO, error) {
	var (
		ls  []loan.Loan
		err error
	)
	if actor.IsAdmin {
		ls, err = u.repo.List(ctx)
	} else {
		ls, err = u.repo.ListByApplicant(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *ToDTO(&ls[i]))
	}
	return out, nil
}

// Decisions is the loan's audit trail of status transitions, oldest first.
func (u *Usecase) Decisions(ctx context.Context, actor access.Actor, loanID string) ([]DecisionDTO, error) {
	l, err := u.load(ctx, actor, loanID)
	if err != nil {
		return nil, err
	}
	out := []DecisionDTO{}
	if u.decisions == nil {
		return out, nil
	}
	ds, err := u.decisions.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	for _, d := range ds {
		out = append(out, DecisionDTO{
			DecisionID: d.DecisionID,
			Outcome:    string(d.Outcome),
			Note:       d.Note,
			DecidedAt:  d.DecidedAt,
		})
	}
	return out, nil
}

// Schedule is the amortization table of an approved loan's terms.
func (u *Usecase) Schedule(ctx context.Context, actor access.Actor, loanID string) ([]amortization.Installment, error) {
	l, err := u.load(ctx, actor, loanID)
	if err != nil {
		return nil, err
	}
	if !l.HasTerms() {
		return nil, apperror.Validation("status", "loan in status "+string(l.Status)+" has no approved terms")
	}
	return amortization.Schedule(l.ApprovedAmount.Decimal, l.InterestRate.Decimal, *l.TermMonths)
}

package registration

import (
	"context"
	"time"

	"loan-ledger-service/internal/domain/applicant"
	"loan-ledger-service/internal/domain/attachment"
	"loan-ledger-service/internal/domain/event"
	"loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/uow"
	"loan-ledger-service/internal/infrastructure/metrics"
	applicantuc "loan-ledger-service/internal/usecase/applicant"
	loanuc "loan-ledger-service/internal/usecase/loan"
	"loan-ledger-service/pkg/id"

	"go.uber.org/zap"
)

// TokenIssuer signs a session for a freshly registered applicant.
type TokenIssuer interface {
	IssueToken(a *applicant.Applicant) (*applicantuc.TokenDTO, error)
}

type Config struct {
	BcryptCost         int
	AttachmentMaxBytes int
}

type Usecase struct {
	uow     uow.UnitOfWork
	store   attachment.Store
	tokens  TokenIssuer
	cfg     Config
	events  event.Publisher
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

type Option func(*Usecase)

func WithLogger(l *zap.Logger) Option { return func(u *Usecase) { u.log = l } }
func WithMetrics(m *metrics.Metrics) Option { return func(u *Usecase) { u.metrics = m } }
func WithPublisher(p event.Publisher) Option { return func(u *Usecase) { u.events = p } }
func WithTokenIssuer(t TokenIssuer) Option { return func(u *Usecase) { u.tokens = t } }
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func NewUsecase(tx uow.UnitOfWork, store attachment.Store, cfg Config, opts ...Option) *Usecase {
	u := &Usecase{uow: tx, store: store, cfg: cfg, events: event.Nop{}, log: zap.NewNop(), now: time.Now}
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

// RegisterAndApply creates an applicant and their first loan atomically. A
// failure on either side leaves nothing behind. Photos are processed after
// commit and never fail the call.
func (u *Usecase) RegisterAndApply(ctx context.Context, in Input) (*Result, error) {
	a, err := applicantuc.Build(in.RegisterInput, u.cfg.BcryptCost)
	if err != nil {
		u.metrics.Registration(false)
		return nil, err
	}

	var l *loan.Loan
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Applicants.Create(ctx, a); err != nil {
			return err
		}
		var err error
		if l, err = loan.NewApplication(a.ID, in.loanInput().Draft(), u.now()); err != nil {
			return err
		}
		return r.Loans.Create(ctx, l)
	})
	if err != nil {
		u.metrics.Registration(false)
		u.log.Info("register-and-apply rolled back", zap.String("username", a.Username), zap.Error(err))
		return nil, err
	}

	u.metrics.Registration(true)
	u.metrics.LoanSubmitted()
	u.log.Info("applicant registered with loan",
		zap.String("applicant_id", a.ApplicantID),
		zap.String("loan_id", l.LoanID))
	u.events.Publish(ctx, event.Event{
		Type:        event.LoanSubmitted,
		LoanID:      l.LoanID,
		ApplicantID: a.ApplicantID,
		Status:      string(l.Status),
		Amount:      l.RequestedAmount.StringFixed(2),
	})

	res := &Result{
		Applicant:   applicantuc.ToDTO(a),
		Loan:        loanuc.ToDTO(l),
		Attachments: []AttachmentOutcome{},
	}
	if in.ProfilePhoto != "" {
		res.Attachments = append(res.Attachments, u.attach(ctx, attachment.KindProfilePhoto, a.ID, in.ProfilePhoto))
	}
	if in.SponsorPhoto != "" {
		res.Attachments = append(res.Attachments, u.attach(ctx, attachment.KindSponsorPhoto, l.ID, in.SponsorPhoto))
	}

	if u.tokens != nil {
		tok, err := u.tokens.IssueToken(a)
		if err != nil {
			// the account exists; the client can still log in
			u.log.Warn("token issue after registration failed", zap.String("applicant_id", a.ApplicantID), zap.Error(err))
		} else {
			res.Token = tok
		}
	}
	return res, nil
}

func (u *Usecase) attach(ctx context.Context, kind attachment.Kind, ownerID uint64, payload string) AttachmentOutcome {
	out := AttachmentOutcome{Kind: kind}
	fail := func(err error) AttachmentOutcome {
		out.Reason = err.Error()
		u.metrics.Attachment(string(kind), false)
		u.log.Warn("attachment not saved",
			zap.String("kind", string(kind)),
			zap.Uint64("owner_id", ownerID),
			zap.Error(err))
		return out
	}

	if u.store == nil {
		return fail(errNoStore)
	}
	raw, contentType, err := attachment.Decode(payload, u.cfg.AttachmentMaxBytes)
	if err != nil {
		return fail(err)
	}
	att := &attachment.Attachment{
		AttachmentID: id.NewID32(),
		Kind:         kind,
		OwnerID:      ownerID,
		ContentType:  contentType,
		Data:         raw,
	}
	if err := u.store.Save(ctx, att); err != nil {
		return fail(err)
	}
	u.metrics.Attachment(string(kind), true)
	out.Saved = true
	out.AttachmentID = att.AttachmentID
	return out
}

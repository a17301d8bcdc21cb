package applicant

import (
	"context"
	"errors"
	"strings"

	"loan-ledger-service/internal/domain/access"
	domain "loan-ledger-service/internal/domain/applicant"
	"loan-ledger-service/internal/domain/apperror"
	"loan-ledger-service/pkg/id"
	"loan-ledger-service/pkg/password"
	"loan-ledger-service/pkg/token"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type Usecase struct {
	repo       domain.Repository
	tokens     *token.Service
	bcryptCost int
	log        *zap.Logger
}

func NewUsecase(repo domain.Repository, tokens *token.Service, bcryptCost int, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

// Build validates in and returns an unsaved, non-admin applicant with a hashed
// password. Admins are never created through registration.
func Build(in RegisterInput, bcryptCost int) (*domain.Applicant, error) {
	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		return nil, apperror.Validation("username", "is required")
	case len(username) > 150:
		return nil, apperror.Validation("username", "must be at most 150 characters")
	case len(in.Password) < minPasswordLen:
		return nil, apperror.Validation("password", "must be at least 8 characters")
	}
	hash, err := password.Hash(in.Password, bcryptCost)
	if err != nil {
		return nil, err
	}
	return &domain.Applicant{
		ApplicantID:  id.NewID32(),
		Username:     username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		NationalID:   strings.TrimSpace(in.NationalID),
	}, nil
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*ApplicantDTO, error) {
	a, err := Build(in, u.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	u.log.Info("applicant registered", zap.String("applicant_id", a.ApplicantID))
	return ToDTO(a), nil
}

// Login verifies the credentials and issues an access token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*TokenDTO, error) {
	if in.Username == "" || in.Password == "" {
		return nil, apperror.Validation("username", "username and password are required")
	}
	a, err := u.repo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthenticated("invalid credentials")
		}
		return nil, err
	}
	if err := password.Verify(in.Password, a.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, apperror.Unauthenticated("invalid credentials")
		}
		return nil, err
	}
	return u.IssueToken(a)
}

// IssueToken signs an access token for an already authenticated applicant.
func (u *Usecase) IssueToken(a *domain.Applicant) (*TokenDTO, error) {
	raw, exp, err := u.tokens.Issue(a.ApplicantID)
	if err != nil {
		return nil, err
	}
	return &TokenDTO{AccessToken: raw, TokenType: "Bearer", ExpiresAt: exp, Applicant: ToDTO(a)}, nil
}

// Authenticate resolves a bearer token to the actor it stands for. The admin
// flag is read from the store, never from the token.
func (u *Usecase) Authenticate(ctx context.Context, raw string) (access.Actor, error) {
	claims, err := u.tokens.Validate(raw)
	if err != nil {
		return access.Actor{}, apperror.Unauthenticated(err.Error())
	}
	a, err := u.repo.GetByApplicantID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.Actor{}, apperror.Unauthenticated("unknown applicant")
		}
		return access.Actor{}, err
	}
	return a.Actor(), nil
}

func (u *Usecase) Me(ctx context.Context, actor access.Actor) (*ApplicantDTO, error) {
	a, err := u.repo.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("applicant")
		}
		return nil, err
	}
	if err := access.Authorize(actor, a, access.ActionRead); err != nil {
		return nil, err
	}
	return ToDTO(a), nil
}

// List is the admin view of every applicant.
func (u *Usecase) List(ctx context.Context, actor access.Actor) ([]ApplicantDTO, error) {
	if !actor.IsAdmin {
		return nil, apperror.Authorization("listing applicants is restricted to administrators")
	}
	as, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicantDTO, 0, len(as))
	for i := range as {
		out = append(out, *ToDTO(&as[i]))
	}
	return out, nil
}

package http

import (
	"net/http"

	applicantuc "loan-ledger-service/internal/usecase/applicant"
	"loan-ledger-service/internal/usecase/registration"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AuthHandler struct {
	accounts     *applicantuc.Usecase
	registration *registration.Usecase
	log          *zap.Logger
}

func NewAuthHandler(accounts *applicantuc.Usecase, reg *registration.Usecase, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{accounts: accounts, registration: reg, log: log}
}

type registerReq struct {
	Username   string `json:"username"    validate:"required,max=150"`
	Password   string `json:"password"    validate:"required,min=8"`
	Email      string `json:"email"       validate:"omitempty,email,max=255"`
	FirstName  string `json:"first_name"  validate:"max=150"`
	LastName   string `json:"last_name"   validate:"max=150"`
	Phone      string `json:"phone"       validate:"max=13"`
	Address    string `json:"address"     validate:"max=255"`
	NationalID string `json:"national_id" validate:"max=20"`
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerApplyReq struct {
	registerReq
	LoanType        string              `json:"loan_type"        validate:"required,oneof=home car education business"`
	RequestedAmount decimal.Decimal     `json:"requested_amount" validate:"gt=0,dec2"`
	AssetsValue     decimal.NullDecimal `json:"assets_value"     validate:"omitempty,gte=0,dec2"`
	MonthlyIncome   decimal.NullDecimal `json:"monthly_income"   validate:"omitempty,gte=0,dec2"`

	SponsorName       string `json:"sponsor_name"        validate:"max=150"`
	SponsorAddress    string `json:"sponsor_address"     validate:"max=255"`
	SponsorNationalID string `json:"sponsor_national_id" validate:"max=20"`
	SponsorPhone      string `json:"sponsor_phone"       validate:"max=13"`
	SponsorEmail      string `json:"sponsor_email"       validate:"omitempty,email"`

	// photos are best-effort and never fail the request
	ProfilePhoto string `json:"profile_photo"`
	SponsorPhoto string `json:"sponsor_photo"`
}

func (r registerApplyReq) input() registration.Input {
	return registration.Input{
		RegisterInput:     applicantuc.RegisterInput(r.registerReq),
		LoanType:          r.LoanType,
		RequestedAmount:   r.RequestedAmount,
		AssetsValue:       r.AssetsValue,
		MonthlyIncome:     r.MonthlyIncome,
		SponsorName:       r.SponsorName,
		SponsorAddress:    r.SponsorAddress,
		SponsorNationalID: r.SponsorNationalID,
		SponsorPhone:      r.SponsorPhone,
		SponsorEmail:      r.SponsorEmail,
		ProfilePhoto:      r.ProfilePhoto,
		SponsorPhoto:      r.SponsorPhoto,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.accounts.Register(c.Request().Context(), applicantuc.RegisterInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	tok, err := h.accounts.Login(c.Request().Context(), applicantuc.LoginInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, tok)
}

// RegisterAndApply creates the applicant and the first loan in one request.
func (h *AuthHandler) RegisterAndApply(c echo.Context) error {
	var req registerApplyReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	res, err := h.registration.RegisterAndApply(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Me(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	dto, err := h.accounts.Me(c.Request().Context(), a)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) ListApplicants(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.accounts.List(c.Request().Context(), a)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

package http

import (
	"net/http"

	loanuc "loan-ledger-service/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LoanHandler struct {
	uc  *loanuc.Usecase
	log *zap.Logger
}

func NewLoanHandler(uc *loanuc.Usecase, log *zap.Logger) *LoanHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoanHandler{uc: uc, log: log}
}

type submitLoanReq struct {
	LoanType        string              `json:"loan_type"        validate:"required,oneof=home car education business"`
	RequestedAmount decimal.Decimal     `json:"requested_amount" validate:"gt=0,dec2"`
	AssetsValue     decimal.NullDecimal `json:"assets_value"     validate:"omitempty,gte=0,dec2"`
	MonthlyIncome   decimal.NullDecimal `json:"monthly_income"   validate:"omitempty,gte=0,dec2"`
	Sponsor         loanuc.SponsorInput `json:"sponsor"`
}

type decideReq struct {
	LoanID         string              `json:"-"`
	Decision       string              `json:"decision"        validate:"required,oneof=approved rejected contract_rejected"`
	ApprovedAmount decimal.NullDecimal `json:"approved_amount" validate:"omitempty,gt=0,dec2"`
	InterestRate   decimal.NullDecimal `json:"interest_rate"   validate:"omitempty,gte=0,lt=1000,dec6"`
	TermMonths     *int                `json:"term_months"     validate:"omitempty,gt=0"`
	Note           string              `json:"note"            validate:"max=255"`
}

type contractReq struct {
	Accept *bool `json:"accept" validate:"required"`
}

func (h *LoanHandler) Submit(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var req submitLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Submit(c.Request().Context(), a, loanuc.SubmitInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.uc.List(c.Request().Context(), a)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) Get(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), a, c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Decide is the admin decision endpoint (approve, reject, reject contract).
func (h *LoanHandler) Decide(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var req decideReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	req.LoanID = c.Param("loan_id")
	dto, err := h.uc.Decide(c.Request().Context(), a, loanuc.DecideInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) RespondToContract(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var req contractReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RespondToContract(c.Request().Context(), a, c.Param("loan_id"), *req.Accept)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Schedule(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	rows, err := h.uc.Schedule(c.Request().Context(), a, c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Decisions is the loan's status audit trail.
func (h *LoanHandler) Decisions(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.uc.Decisions(c.Request().Context(), a, c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

package http

import (
	"net/http"

	paymentuc "loan-ledger-service/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	uc  *paymentuc.Usecase
	log *zap.Logger
}

func NewPaymentHandler(uc *paymentuc.Usecase, log *zap.Logger) *PaymentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentHandler{uc: uc, log: log}
}

type recordPaymentReq struct {
	LoanID       string          `json:"loan_id"       validate:"required,hex32"`
	Amount       decimal.Decimal `json:"amount"        validate:"gt=0,dec2"`
	PayerContact string          `json:"payer_contact" validate:"max=20"`
}

func (h *PaymentHandler) Record(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var req recordPaymentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	receipt, err := h.uc.Record(c.Request().Context(), a, paymentuc.RecordInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, receipt)
}

// History is GET /loans/:loan_id/payments.
func (h *PaymentHandler) History(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.uc.History(c.Request().Context(), a, c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *PaymentHandler) List(c echo.Context) error {
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

func (h *PaymentHandler) Get(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), a, c.Param("payment_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Reconcile is admin-only; see paymentuc.Usecase.Reconcile.
func (h *PaymentHandler) Reconcile(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.uc.Reconcile(c.Request().Context(), a, c.Param("loan_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rec)
}

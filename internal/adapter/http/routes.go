package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Routes is the full HTTP surface. Idempotency and Metrics are optional.
type Routes struct {
	Health   *Handler
	Auth     *AuthHandler
	Loans    *LoanHandler
	Payments *PaymentHandler

	RequireAuth echo.MiddlewareFunc
	Idempotency echo.MiddlewareFunc
	Metrics     http.Handler
}

func (r Routes) Register(e *echo.Echo) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	e.POST("/auth/register", r.Auth.Register)
	e.POST("/auth/login", r.Auth.Login)
	e.POST("/register-apply", r.Auth.RegisterAndApply)

	// per-route rather than a prefix-less Group, so unknown paths stay 404
	mw := []echo.MiddlewareFunc{r.RequireAuth}
	if r.Idempotency != nil {
		mw = append(mw, r.Idempotency)
	}
	authed := func(method, path string, h echo.HandlerFunc) { e.Add(method, path, h, mw...) }

	authed(http.MethodGet, "/me", r.Auth.Me)
	authed(http.MethodGet, "/applicants", r.Auth.ListApplicants)

	authed(http.MethodPost, "/loans", r.Loans.Submit)
	authed(http.MethodGet, "/loans", r.Loans.List)
	authed(http.MethodGet, "/loans/:loan_id", r.Loans.Get)
	authed(http.MethodPost, "/loans/:loan_id/decision", r.Loans.Decide)
	authed(http.MethodPost, "/loans/:loan_id/contract", r.Loans.RespondToContract)
	authed(http.MethodGet, "/loans/:loan_id/schedule", r.Loans.Schedule)
	authed(http.MethodGet, "/loans/:loan_id/decisions", r.Loans.Decisions)
	authed(http.MethodGet, "/loans/:loan_id/payments", r.Payments.History)
	authed(http.MethodGet, "/loans/:loan_id/reconcile", r.Payments.Reconcile)

	authed(http.MethodPost, "/payments", r.Payments.Record)
	authed(http.MethodGet, "/payments", r.Payments.List)
	authed(http.MethodGet, "/payments/:payment_id", r.Payments.Get)
}

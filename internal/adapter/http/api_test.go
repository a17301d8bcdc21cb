package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loan-ledger-service/internal/adapter/middleware"
	"loan-ledger-service/internal/adapter/repository/mysql"
	"loan-ledger-service/internal/domain/applicant"
	"loan-ledger-service/internal/infrastructure/db"
	applicantuc "loan-ledger-service/internal/usecase/applicant"
	loanuc "loan-ledger-service/internal/usecase/loan"
	paymentuc "loan-ledger-service/internal/usecase/payment"
	"loan-ledger-service/internal/usecase/registration"
	"loan-ledger-service/pkg/id"
	"loan-ledger-service/pkg/token"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

type testAPI struct {
	e          *echo.Echo
	accounts   *applicantuc.Usecase
	applicants *mysql.ApplicantRepository
}

// newTestAPI wires the real routes over an in-memory sqlite database.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gdb, err := db.OpenGormWithDialector(sqlite.Open(":memory:"), db.Options{LogLevel: "silent"})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	tx := mysql.NewGormUoW(gdb)
	applicants := mysql.NewApplicantRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	accounts := applicantuc.NewUsecase(applicants, token.NewService("test-secret", "loan-ledger", time.Hour), bcrypt.MinCost, nil)
	reg := registration.NewUsecase(tx, mysql.NewAttachmentRepository(gdb),
		registration.Config{BcryptCost: bcrypt.MinCost, AttachmentMaxBytes: 1 << 20},
		registration.WithTokenIssuer(accounts))

	e := echo.New()
	e.Validator = NewValidator()
	Routes{
		Health:      NewHandler(nil),
		Auth:        NewAuthHandler(accounts, reg, nil),
		Loans:       NewLoanHandler(loanuc.NewUsecase(loans, tx, loanuc.WithDecisionLog(mysql.NewDecisionRepository(gdb))), nil),
		Payments:    NewPaymentHandler(paymentuc.NewUsecase(loans, mysql.NewPaymentRepository(gdb), tx), nil),
		RequireAuth: middleware.RequireAuth(accounts),
	}.Register(e)

	return &testAPI{e: e, accounts: accounts, applicants: applicants}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Reader
	switch b := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) adminToken(t *testing.T) string {
	t.Helper()
	admin := &applicant.Applicant{ApplicantID: id.NewID32(), Username: "admin", PasswordHash: "x", IsAdmin: true}
	require.NoError(t, a.applicants.Create(context.Background(), admin))
	tok, err := a.accounts.IssueToken(admin)
	require.NoError(t, err)
	return tok.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func registerApplyBody(username, loanType, amount string) map[string]any {
	return map[string]any{
		"username":         username,
		"password":         "password1",
		"first_name":       "Test",
		"loan_type":        loanType,
		"requested_amount": json.Number(amount),
		"monthly_income":   json.Number("1500"),
		"sponsor_name":     "Sponsor",
	}
}

func TestAPI_AuthFlows(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/auth/register", "", map[string]any{"username": "bob", "password": "short"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	er := decode[ErrorResponse](t, rec)
	assert.True(t, containsFieldMsg(er.Details, "password", "at least 8"), "%+v", er.Details)

	rec = api.do(t, http.MethodPost, "/auth/register", "", `{"username":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/auth/register", "", map[string]any{"username": "bob", "password": "password1", "email": "bob@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bob := decode[applicantuc.ApplicantDTO](t, rec)
	assert.Equal(t, "bob", bob.Username)
	assert.False(t, bob.IsAdmin)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.do(t, http.MethodPost, "/auth/register", "", map[string]any{"username": "bob", "password": "password2"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate", decode[ErrorResponse](t, rec).Kind)

	rec = api.do(t, http.MethodPost, "/auth/login", "", map[string]any{"username": "bob", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/auth/login", "", map[string]any{"username": "bob", "password": "password1"})
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decode[applicantuc.TokenDTO](t, rec)
	require.NotEmpty(t, tok.AccessToken)

	rec = api.do(t, http.MethodGet, "/me", tok.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bob.ApplicantID, decode[applicantuc.ApplicantDTO](t, rec).ApplicantID)

	rec = api.do(t, http.MethodGet, "/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/applicants", tok.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodGet, "/applicants", api.adminToken(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]applicantuc.ApplicantDTO](t, rec), 2)
}

func TestAPI_RegisterAndApply(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/register-apply", "", registerApplyBody("carol", "yacht", "100"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, containsFieldMsg(decode[ErrorResponse](t, rec).Details, "loan_type", "one of"))

	// nothing was created
	rec = api.do(t, http.MethodPost, "/auth/login", "", map[string]any{"username": "carol", "password": "password1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := registerApplyBody("carol", "education", "2500.50")
	body["sponsor_photo"] = "not an image"
	rec = api.do(t, http.MethodPost, "/register-apply", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[registration.Result](t, rec)
	assert.Equal(t, "carol", res.Applicant.Username)
	assert.Equal(t, "pending", res.Loan.Status)
	assert.True(t, res.Loan.RequestedAmount.Equal(decimal.RequireFromString("2500.5")))
	require.NotNil(t, res.Token)
	require.Len(t, res.Attachments, 1)
	assert.False(t, res.Attachments[0].Saved)

	rec = api.do(t, http.MethodGet, "/loans/"+res.Loan.LoanID, res.Token.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_LoanLifecycle(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/register-apply", "", registerApplyBody("alice", "car", "5000"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[registration.Result](t, rec)
	alice := reg.Token.AccessToken
	loanID := reg.Loan.LoanID

	rec = api.do(t, http.MethodPost, "/auth/register", "", map[string]any{"username": "mallory", "password": "password1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = api.do(t, http.MethodPost, "/auth/login", "", map[string]any{"username": "mallory", "password": "password1"})
	require.Equal(t, http.StatusOK, rec.Code)
	mallory := decode[applicantuc.TokenDTO](t, rec).AccessToken

	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/loans", "", nil).Code)

	rec = api.do(t, http.MethodGet, "/loans", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]loanuc.LoanDTO](t, rec), 1)
	rec = api.do(t, http.MethodGet, "/loans", mallory, nil)
	assert.Empty(t, decode[[]loanuc.LoanDTO](t, rec))

	// a second loan through the authenticated endpoint
	rec = api.do(t, http.MethodPost, "/loans", alice, map[string]any{"loan_type": "home", "requested_amount": 120000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = api.do(t, http.MethodPost, "/loans", alice, map[string]any{"loan_type": "home", "requested_amount": 0})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// payments before approval
	pay := map[string]any{"loan_id": loanID, "amount": 500}
	rec = api.do(t, http.MethodPost, "/payments", alice, pay)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "loan_not_payable", decode[ErrorResponse](t, rec).Kind)

	approve := map[string]any{"decision": "approved", "approved_amount": 5000, "interest_rate": 0.1, "term_months": 12}
	rec = api.do(t, http.MethodPost, "/loans/"+loanID+"/decision", alice, approve)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, "/loans/"+loanID+"/decision", admin, map[string]any{"decision": "approved"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodPost, "/loans/"+loanID+"/decision", admin, approve)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[loanuc.LoanDTO](t, rec)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.MonthlyPayment)
	assert.Equal(t, "439.58", approved.MonthlyPayment.StringFixed(2))

	rec = api.do(t, http.MethodPost, "/loans/"+loanID+"/decision", admin, map[string]any{"decision": "rejected"})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/payments", alice, pay)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	receipt := decode[paymentuc.Receipt](t, rec)
	assert.True(t, receipt.AmountPaid.Equal(decimal.NewFromInt(500)))
	assert.True(t, receipt.OutstandingBalance.Equal(decimal.NewFromInt(4500)))

	rec = api.do(t, http.MethodPost, "/payments", mallory, pay)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = api.do(t, http.MethodPost, "/payments", alice, map[string]any{"loan_id": loanID, "amount": 0})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = api.do(t, http.MethodPost, "/payments", alice, map[string]any{"loan_id": strings.Repeat("f", 32), "amount": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, "/loans/"+loanID+"/payments", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]paymentuc.PaymentDTO](t, rec)
	require.Len(t, history, 1)

	paymentPath := "/payments/" + history[0].PaymentID
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, paymentPath, alice, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, paymentPath, mallory, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, paymentPath, admin, nil).Code)

	rec = api.do(t, http.MethodGet, "/payments", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]paymentuc.PaymentDTO](t, rec), 1)
	rec = api.do(t, http.MethodGet, "/payments", mallory, nil)
	assert.Empty(t, decode[[]paymentuc.PaymentDTO](t, rec))

	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, "/loans/"+loanID+"/reconcile", alice, nil).Code)
	rec = api.do(t, http.MethodGet, "/loans/"+loanID+"/reconcile", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[paymentuc.Reconciliation](t, rec).Consistent)

	rec = api.do(t, http.MethodGet, "/loans/"+loanID+"/schedule", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 12)

	rec = api.do(t, http.MethodPost, "/loans/"+loanID+"/contract", alice, map[string]any{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = api.do(t, http.MethodPost, "/loans/"+loanID+"/contract", mallory, map[string]any{"accept": true})
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = api.do(t, http.MethodPost, "/loans/"+loanID+"/contract", alice, map[string]any{"accept": true})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[loanuc.LoanDTO](t, rec)
	require.NotNil(t, got.ContractAccepted)
	assert.True(t, *got.ContractAccepted)
	assert.Equal(t, "approved", got.Status)

	rec = api.do(t, http.MethodGet, "/loans/"+loanID+"/decisions", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	trail := decode[[]loanuc.DecisionDTO](t, rec)
	require.Len(t, trail, 1)
	assert.Equal(t, "approved", trail[0].Outcome)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/loans/"+strings.Repeat("0", 32), alice, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(t, http.MethodGet, "/loans/"+loanID, mallory, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/nowhere", "", nil).Code)
}

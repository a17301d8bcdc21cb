package http

import (
	"errors"
	"net/http"

	"loan-ledger-service/internal/adapter/middleware"
	"loan-ledger-service/internal/domain/access"
	"loan-ledger-service/internal/domain/apperror"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation:        http.StatusUnprocessableEntity,
	apperror.KindInvalidPrincipal:  http.StatusUnprocessableEntity,
	apperror.KindInvalidRate:       http.StatusUnprocessableEntity,
	apperror.KindInvalidTerm:       http.StatusUnprocessableEntity,
	apperror.KindIllegalTransition: http.StatusConflict,
	apperror.KindDuplicate:         http.StatusConflict,
	apperror.KindLoanNotPayable:    http.StatusConflict,
	apperror.KindAuthorization:     http.StatusForbidden,
	apperror.KindNotFound:          http.StatusNotFound,
	apperror.KindUnauthenticated:   http.StatusUnauthorized,
}

// StatusFor maps a usecase error to its HTTP status; unknown errors are 500.
func StatusFor(err error) int {
	if code, ok := statusByKind[apperror.KindOf(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// writeError renders err as an ErrorResponse. Internal errors are logged and
// never leak their message.
func writeError(c echo.Context, log *zap.Logger, err error) error {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err))
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}

	var e *apperror.Error
	_ = errors.As(err, &e)
	resp := ErrorResponse{Error: err.Error(), Kind: string(e.Kind)}
	if e.Field != "" {
		resp.Details = []FieldError{{Field: e.Field, Message: e.Message}}
	}
	return c.JSON(code, resp)
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Kind:    string(apperror.KindValidation),
		Details: ToFieldErrors(err),
	})
}

// bindValid binds the request into v and runs the validator.
// It writes the 400/422 response itself and reports whether to continue.
func bindValid(c echo.Context, v any) (bool, error) {
	if err := c.Bind(v); err != nil {
		return false, badBody(c)
	}
	if err := c.Validate(v); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}

// actor is set by middleware.RequireAuth on every authenticated route.
func actor(c echo.Context) (access.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return access.Actor{}, apperror.Unauthenticated("authentication required")
	}
	return a, nil
}

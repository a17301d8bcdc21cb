package middleware

import (
	"context"
	"net/http"
	"strings"

	"loan-ledger-service/internal/domain/access"

	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// Authenticator resolves a bearer token to the acting applicant.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (access.Actor, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved actor on the context for handlers (see ActorFrom).
func RequireAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			actor, err := a.Authenticate(c.Request().Context(), raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			SetActor(c, actor)
			return next(c)
		}
	}
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func SetActor(c echo.Context, a access.Actor) { c.Set(actorKey, a) }

// ActorFrom returns the actor stored by RequireAuth.
func ActorFrom(c echo.Context) (access.Actor, bool) {
	a, ok := c.Get(actorKey).(access.Actor)
	return a, ok
}

package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Allowed client/server clock skew for Ax-Request-At.
const maxClockSkew = 10 * time.Minute

const headerReplay = "Ax-Idempotent-Replay"

// captureWriter tees the response body so it can be stored for replays.
type captureWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// Idempotency replays the stored response of a mutating request that repeats
// its Ax-Request-Id. The key is method + route + acting applicant + request id,
// so it must run after RequireAuth. Server errors are not stored; the client
// may retry them with the same id.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	store := newReplayStore(rdb, ttl)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID, err := requestID(req.Header.Get("Ax-Request-Id"))
			if err != nil {
				return jsonError(c, http.StatusBadRequest, err.Error())
			}
			reqAt, err := freshRequestAt(req.Header.Get("Ax-Request-At"), time.Now().UTC(), maxClockSkew)
			if err != nil {
				return jsonError(c, http.StatusBadRequest, err.Error())
			}
			actor, ok := ActorFrom(c)
			if !ok {
				return jsonError(c, http.StatusUnauthorized, "authentication required")
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			hash := bodyHash(body)

			key := replayKey(req.Method, c.Path(), actor.ApplicantID, reqID)
			logKey := zap.String("key", key)

			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			claimed, err := store.claim(ctx, key, replayEntry{BodyHash: hash, RequestAt: reqAt, StoredAt: time.Now().UTC()})
			if err != nil {
				log.Warn("idempotency store unavailable", logKey, zap.Error(err))
				return jsonError(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !claimed {
				prev, err := store.load(ctx, key)
				if err != nil {
					log.Warn("idempotency entry load failed", logKey, zap.Error(err))
				}
				switch {
				case prev.BodyHash != "" && prev.BodyHash != hash:
					return jsonError(c, http.StatusConflict, "Ax-Request-Id reused with different body")
				case prev.replayable():
					c.Response().Header().Set(headerReplay, "true")
					return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Body)
				}
				return jsonError(c, http.StatusConflict, "request is already in progress")
			}

			w := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may be gone by now
			sctx, scancel := context.WithTimeout(context.WithoutCancel(req.Context()), 2*time.Second)
			defer scancel()
			if w.status >= http.StatusInternalServerError {
				if err := store.release(sctx, key); err != nil {
					log.Warn("idempotency key release failed", logKey, zap.Error(err))
				}
				return nil
			}
			done := replayEntry{
				Status:    w.status,
				Body:      w.body.Bytes(),
				BodyHash:  hash,
				RequestAt: reqAt,
				StoredAt:  time.Now().UTC(),
			}
			if err := store.finish(sctx, key, done); err != nil {
				log.Warn("idempotency entry save failed", logKey, zap.Error(err))
			}
			return nil
		}
	}
}

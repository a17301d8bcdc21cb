package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayKeyPrefix = "loanledger:replay:"

// replayEntry is what the store keeps per (route, applicant, request id).
type replayEntry struct {
	InProgress bool      `json:"in_progress"`
	Status     int       `json:"status,omitempty"`
	Body       []byte    `json:"body,omitempty"`
	BodyHash   string    `json:"body_hash"`
	RequestAt  time.Time `json:"request_at"`
	StoredAt   time.Time `json:"stored_at"`
}

func (e replayEntry) replayable() bool { return !e.InProgress && e.Status != 0 && len(e.Body) > 0 }

// replayStore keeps idempotency entries in redis. A claim holds the key for
// claimTTL; a finished entry lives for ttl.
type replayStore struct {
	rdb      *redis.Client
	ttl      time.Duration
	claimTTL time.Duration
}

func newReplayStore(rdb *redis.Client, ttl time.Duration) *replayStore {
	return &replayStore{rdb: rdb, ttl: ttl, claimTTL: 60 * time.Second}
}

// claim marks key as in progress. false means someone already holds it.
func (s *replayStore) claim(ctx context.Context, key string, e replayEntry) (bool, error) {
	e.InProgress = true
	b, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, b, s.claimTTL).Result()
}

func (s *replayStore) load(ctx context.Context, key string) (replayEntry, error) {
	var e replayEntry
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(b, &e); err != nil {
		return e, fmt.Errorf("decode replay entry: %w", err)
	}
	return e, nil
}

func (s *replayStore) finish(ctx context.Context, key string, e replayEntry) error {
	e.InProgress = false
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, s.ttl).Err()
}

func (s *replayStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// replayKey scopes a request id to the route and the acting applicant, so two
// applicants may reuse the same id.
func replayKey(method, route, applicantID, requestID string) string {
	return replayKeyPrefix + strings.ToLower(method) + ":" + route + ":" + applicantID + ":" + requestID
}

func bodyHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

var (
	reRequestUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reRequestHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

var (
	errMissingRequestID = errors.New("missing Ax-Request-Id")
	errBadRequestID     = errors.New("invalid Ax-Request-Id format")
	errMissingRequestAt = errors.New("missing Ax-Request-At")
	errBadRequestAt     = errors.New("Ax-Request-At must be epoch (s/ms) or RFC3339 with timezone")
	errSkewedRequestAt  = errors.New("Ax-Request-At too skewed")
)

// requestID accepts a lowercase uuid (v1-v5) or 32-char lowercase hex.
func requestID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	switch {
	case id == "":
		return "", errMissingRequestID
	case reRequestUUID.MatchString(id), reRequestHex32.MatchString(id):
		return id, nil
	}
	return "", errBadRequestID
}

// requestAt parses epoch seconds, epoch millis or RFC3339 with a zone.
// Timestamps without a zone are rejected.
func requestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errMissingRequestAt
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errBadRequestAt
	}
	return t.UTC(), nil
}

// freshRequestAt is requestAt plus a skew check against now.
func freshRequestAt(raw string, now time.Time, skew time.Duration) (time.Time, error) {
	at, err := requestAt(raw)
	if err != nil {
		return at, err
	}
	if at.Before(now.Add(-skew)) || at.After(now.Add(skew)) {
		return at, errSkewedRequestAt
	}
	return at, nil
}

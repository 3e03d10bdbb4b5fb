package common

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// IdempotencyHeader carries the client-generated submission key.
const IdempotencyHeader = "Idempotency-Key"

// Idem rejects a second submission carrying the same Idempotency-Key while the first
// one is in flight or has succeeded. Keys of failed submissions are released so the
// customer can correct the form and submit again.
type Idem struct {
	R   redis.UniversalClient
	TTL time.Duration
}

// MaxIdempotencyKeyLen bounds the header; clients send a UUID.
const MaxIdempotencyKeyLen = 128

// IdempotencyKey returns the trimmed Idempotency-Key header of r, or "" when absent.
func IdempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(IdempotencyHeader))
}

// raw header values never reach redis.
func idemKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "idem:submit:" + hex.EncodeToString(sum[:])
}

// Middleware enforces idempotency semantics for write endpoints.
func (i Idem) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := IdempotencyKey(r)
		if len(header) > MaxIdempotencyKeyLen {
			JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Idempotency-Key too long", nil)
			return
		}
		if header == "" || i.R == nil {
			next.ServeHTTP(w, r)
			return
		}
		ttl := i.TTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		key := idemKey(header)
		ok, err := i.R.SetNX(r.Context(), key, "locked", ttl).Result()
		if err != nil {
			JSONError(w, http.StatusInternalServerError, "INTERNAL", "idempotency store error", nil)
			return
		}
		if !ok {
			JSONError(w, http.StatusConflict, "IDEMPOTENT_REPLAY", "duplicate submission", nil)
			return
		}
		rec := &statusCapture{ResponseWriter: w, status: http.StatusOK}
		keep := false
		defer func() {
			if keep {
				return
			}
			_ = i.R.Del(context.Background(), key).Err()
		}()
		next.ServeHTTP(rec, r)
		if rec.status < http.StatusBadRequest {
			keep = true
		}
	})
}

type statusCapture struct {
	http.ResponseWriter
	status int
}

func (s *statusCapture) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

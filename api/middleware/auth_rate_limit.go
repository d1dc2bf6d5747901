package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/shopdesk-backend/api/responses"
	"github.com/angelmondragon/shopdesk-backend/internal/identity"
	pkgerrors "github.com/angelmondragon/shopdesk-backend/pkg/errors"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// emailPeekLimit caps how much of an auth body is buffered to find the email.
const emailPeekLimit = 64 << 10

// RateLimitStore counts hits in a fixed window and reports the attempts so
// far plus the time until the window resets.
type RateLimitStore interface {
	Hit(ctx context.Context, bucket string, window time.Duration) (int64, time.Duration, error)
}

// AuthRateLimitPolicy throttles one auth surface (login, register) by client
// IP and by submitted email.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p AuthRateLimitPolicy) active() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

type rateCheck struct {
	scope  string
	bucket string
	limit  int
	field  string
	value  string
}

// checks lists the counters a request has to pass. Email buckets are
// partitioned per store so storefront customers of different shops with the
// same address do not throttle each other.
func (p AuthRateLimitPolicy) checks(r *http.Request, email string) []rateCheck {
	var out []rateCheck
	if ip := clientIP(r); p.ipLimit > 0 && ip != "" {
		out = append(out, rateCheck{
			scope:  "ip",
			bucket: p.name + ":ip:" + ip,
			limit:  p.ipLimit,
			field:  "ip",
			value:  ip,
		})
	}
	if p.emailLimit > 0 && email != "" {
		storeID := strconv.FormatUint(uint64(StoreIDFromContext(r.Context())), 10)
		digest := sha256.Sum256([]byte(storeID + "|" + email))
		hash := hex.EncodeToString(digest[:])
		out = append(out, rateCheck{
			scope:  "email",
			bucket: p.name + ":email:" + hash,
			limit:  p.emailLimit,
			field:  "email_hash",
			value:  hash,
		})
	}
	return out
}

// AuthRateLimit rejects requests over the policy's limits with 429 and a
// Retry-After header. A nil store disables throttling.
func AuthRateLimit(policy AuthRateLimitPolicy, store RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || !policy.active() {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var email string
			if policy.emailLimit > 0 {
				var err error
				if email, err = peekEmail(r); err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to read request body"))
					return
				}
			}

			for _, check := range policy.checks(r, email) {
				count, resetIn, err := store.Hit(ctx, check.bucket, policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiter unavailable"))
					return
				}
				if count <= int64(check.limit) {
					continue
				}
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"policy":      policy.name,
						"scope":       check.scope,
						check.field:   check.value,
						"attempts":    count,
						"limit":       check.limit,
						"reset_in_ms": resetIn.Milliseconds(),
					}), "auth.rate_limit.blocked")
				}
				w.Header().Set("Retry-After", retryAfter(resetIn, policy.window))
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// peekEmail reads the normalized email from a JSON body and restores the body
// for the next handler. Bodies that are not JSON yield no email.
func peekEmail(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, emailPeekLimit))
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), r.Body))

	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &payload) != nil {
		return "", nil
	}
	return identity.NormalizeEmail(payload.Email), nil
}

func retryAfter(resetIn, window time.Duration) string {
	if resetIn <= 0 {
		resetIn = window
	}
	return strconv.Itoa(int(math.Ceil(resetIn.Seconds())))
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

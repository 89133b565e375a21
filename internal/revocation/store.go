package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// keyPrefix namespaces denylist entries away from any other cache usage.
const keyPrefix = "jwt:blacklist:"

var (
	mRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_revocations_total",
		Help: "Token identifiers added to the denylist.",
	})
	mFallbackWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_revocation_fallback_writes_total",
		Help: "Revocations recorded in the process-local fallback because the cache was unreachable.",
	})
	mFallbackReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_revocation_fallback_reads_total",
		Help: "Membership checks answered by the process-local fallback because the cache was unreachable.",
	})
	mFallbackEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "auth_revocation_fallback_entries",
		Help: "Live entries in the process-local fallback set.",
	})
)

// Store is a denylist of token identifiers. The distributed cache is the
// source of truth; when it is unreachable the store degrades to a
// process-local set rather than failing the caller. The fallback is not
// shared across instances; the counters above let operators see that
// degradation happening.
type Store struct {
	rdb     redis.UniversalClient
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	local map[string]time.Time
}

// New builds a Store over rdb. A nil client is allowed and keeps the store in
// memory-only mode, which is how dev environments without Redis run.
func New(rdb redis.UniversalClient, timeout time.Duration, log *zap.Logger) *Store {
	if log == nil {
		log = zap.L()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Store{
		rdb:     rdb,
		timeout: timeout,
		log:     log.With(zap.String("component", "revocation")),
		now:     func() time.Time { return time.Now().UTC() },
		local:   make(map[string]time.Time),
	}
}

// WithNow overrides the clock, for tests.
func (s *Store) WithNow(now func() time.Time) *Store {
	s.now = now
	return s
}

// Revoke records jti as no longer honored for ttl. It never returns an
// error: a revocation that cannot reach the cache lands in the local set and
// the caller's own success path (logout, password reset) proceeds.
func (s *Store) Revoke(ctx context.Context, jti string, ttl time.Duration) {
	if jti == "" || ttl <= 0 {
		return
	}
	mRevoked.Inc()

	if s.rdb != nil {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		err := s.rdb.Set(cctx, keyPrefix+jti, 1, ttl).Err()
		if err == nil {
			return
		}
		s.log.Warn("cache revoke failed; using local fallback", zap.Error(err))
	}

	mFallbackWrites.Inc()
	s.addLocal(jti, ttl)
}

// IsRevoked answers membership from the cache, or from the local fallback
// when the cache cannot answer. A jti is revoked if whichever store responded
// contains it.
func (s *Store) IsRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}

	if s.rdb != nil {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		n, err := s.rdb.Exists(cctx, keyPrefix+jti).Result()
		if err == nil {
			return n > 0
		}
		s.log.Warn("cache check failed; using local fallback", zap.Error(err))
		mFallbackReads.Inc()
	}

	return s.inLocal(jti)
}

func (s *Store) addLocal(jti string, ttl time.Duration) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, exp := range s.local {
		if !exp.After(now) {
			delete(s.local, k)
		}
	}
	s.local[jti] = now.Add(ttl)
	mFallbackEntries.Set(float64(len(s.local)))
}

func (s *Store) inLocal(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.local[jti]
	return ok && exp.After(s.now())
}

package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RevocationStore tracks session tokens invalidated before their natural
// expiry.  Entries are keyed by the SHA-256 digest of the raw token and
// carry a TTL equal to the token's remaining lifetime, so the set evicts
// itself as tokens expire.
//
// When no Redis client is available the store falls back to a
// process-lifetime in-memory map guarded by a mutex.  That keeps logout
// working on a single instance; revocations are then lost on restart,
// which is acceptable only because tokens expire naturally.
type RevocationStore struct {
	rdb *redis.Client

	mu  sync.Mutex
	mem map[string]time.Time // token hash -> expiry of the revocation entry
}

// NewRevocationStore builds a store over the given Redis client.  A nil
// client selects the in-memory fallback.
func NewRevocationStore(rdb *redis.Client) *RevocationStore {
	return &RevocationStore{rdb: rdb, mem: make(map[string]time.Time)}
}

// Revoke adds a token digest to the set for the given duration.  A
// non-positive TTL means the token has already expired and there is nothing
// to record.
func (s *RevocationStore) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if s.rdb != nil {
		return s.rdb.Set(ctx, revokedKeyPrefix+tokenHash, 1, ttl).Err()
	}
	s.mu.Lock()
	s.mem[tokenHash] = time.Now().UTC().Add(ttl)
	s.mu.Unlock()
	return nil
}

// IsRevoked reports whether a token digest is present in the set.  Expired
// in-memory entries are pruned on read.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	if s.rdb != nil {
		n, err := s.rdb.Exists(ctx, revokedKeyPrefix+tokenHash).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.mem[tokenHash]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(exp) {
		delete(s.mem, tokenHash)
		return false, nil
	}
	return true, nil
}

package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetKeyPrefix = "reset:"

// ResetTicketStore holds the short-lived, single-use tickets issued by a
// successful OTP verification and required to reset a password.  A ticket
// is stored by digest and bound to the email it was issued for, with a TTL
// after which it silently disappears.
//
// Like RevocationStore, it degrades to an in-memory map when Redis is not
// configured.
type ResetTicketStore struct {
	rdb *redis.Client

	mu  sync.Mutex
	mem map[string]memTicket
}

type memTicket struct {
	email string
	exp   time.Time
}

// NewResetTicketStore builds a store over the given Redis client.  A nil
// client selects the in-memory fallback.
func NewResetTicketStore(rdb *redis.Client) *ResetTicketStore {
	return &ResetTicketStore{rdb: rdb, mem: make(map[string]memTicket)}
}

func ticketKey(ticket string) string {
	sum := sha256.Sum256([]byte(ticket))
	return resetKeyPrefix + hex.EncodeToString(sum[:])
}

// Issue records a ticket for the given normalized email.
func (s *ResetTicketStore) Issue(ctx context.Context, email, ticket string, ttl time.Duration) error {
	if s.rdb != nil {
		return s.rdb.Set(ctx, ticketKey(ticket), email, ttl).Err()
	}
	s.mu.Lock()
	s.mem[ticketKey(ticket)] = memTicket{email: email, exp: time.Now().UTC().Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Consume removes the ticket and reports whether it was live and bound to
// the given email.  Removal happens regardless of the email comparison so a
// ticket can never be redeemed twice.
func (s *ResetTicketStore) Consume(ctx context.Context, email, ticket string) (bool, error) {
	key := ticketKey(ticket)
	if s.rdb != nil {
		owner, err := s.rdb.GetDel(ctx, key).Result()
		if err == redis.Nil {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return owner == email, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.mem[key]
	if !ok {
		return false, nil
	}
	delete(s.mem, key)
	if time.Now().UTC().After(t.exp) {
		return false, nil
	}
	return t.email == email, nil
}

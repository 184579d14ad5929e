package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA-256 hashing of raw tokens for the revocation set
	"encoding/hex"  // hex encoding of digests
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Sentinel errors returned by ParseSessionToken.  Handlers and middleware
// map both to 401; the distinction only matters for logging.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// SessionToken is a signed JWT session token along with its expiry.  Tokens
// are self-contained: subject, email and role travel as claims so a request
// can be attributed without a database read, though the access guard still
// resolves the live user record afterwards.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	UserID uint64
	Email  string
	Role   string
	Exp    time.Time
}

// NewSessionToken builds and signs an HS256 JWT for a user.  The token
// carries standard claims: subject (sub), email, role, expiration (exp)
// and issued at (iat).  ttlDays controls the token lifetime.
func NewSessionToken(secret string, userID uint64, email, role string, ttlDays int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of a session token and
// returns its claims.  Tokens signed with a different algorithm or secret
// fail with ErrTokenInvalid; expired tokens fail with ErrTokenExpired.
func ParseSessionToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrTokenExpired
		}
		return TokenClaims{}, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return TokenClaims{}, ErrTokenInvalid
	}

	var out TokenClaims
	switch sub := claims["sub"].(type) {
	case float64:
		out.UserID = uint64(sub)
	default:
		return TokenClaims{}, ErrTokenInvalid
	}
	out.Email, _ = claims["email"].(string)
	out.Role, _ = claims["role"].(string)
	if expVal, ok := claims["exp"].(float64); ok {
		out.Exp = time.Unix(int64(expVal), 0).UTC()
	}
	return out, nil
}

// HashToken returns the SHA-256 hash of a raw session token as a hex string.
// The revocation set is keyed by this digest so raw tokens never leave the
// request path.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

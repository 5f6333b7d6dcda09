package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

type ctxKey int

// Key is used to store and retrieve Claims from a context.Context.
const Key ctxKey = 1

// CookieName is the session cookie set on login. ResetCookieName carries
// the reset-authorization flag between the two reset steps.
const (
	CookieName      = "maxelo_session"
	ResetCookieName = "maxelo_reset"
)

// SessionTTL is the absolute session lifetime. There is no shorter idle
// timeout.
const SessionTTL = 7 * 24 * time.Hour

// ResetTTL bounds how long a verified reset flag stays usable.
const ResetTTL = 15 * time.Minute

var (
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrResetNotAuthorized = errors.New("password reset has not been authorized for this session")
)

// Claims is the session context established at login: who the user is and
// which dashboard this session was granted.
type Claims struct {
	jwt.StandardClaims

	UserID   int    `json:"uid"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	View     string `json:"view"`
}

// Authorized reports whether the session's granted view matches any of the
// required roles. No roles means any valid session is enough.
func (c Claims) Authorized(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if c.View == r {
			return true
		}
	}
	return false
}

// GetClaims retrieves the session claims placed on the context by the
// authentication middleware.
func GetClaims(ctx context.Context) (Claims, error) {
	claims, ok := ctx.Value(Key).(Claims)
	if !ok {
		return Claims{}, errors.New("claims missing from context")
	}
	return claims, nil
}

// Auth signs and validates session tokens and tracks the short-lived
// server-side flags (logout revocation, reset authorization) in a Store.
// A nil store skips revocation checks and refuses the reset flow.
type Auth struct {
	secret []byte
	store  Store
}

func New(secret string, store Store) *Auth {
	return &Auth{secret: []byte(secret), store: store}
}

// GenerateToken issues a signed session token with a 7 day expiry.
func (a *Auth) GenerateToken(claims Claims) (string, error) {
	now := time.Now()
	claims.Id = randomToken()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(SessionTTL).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing session token")
	}
	return signed, nil
}

// ValidateToken verifies the signature and expiry and rejects tokens
// revoked by logout.
func (a *Auth) ValidateToken(ctx context.Context, tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	if token == nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if a.store != nil && claims.Id != "" {
		_, revoked, err := a.store.Get(ctx, "session:revoked:"+claims.Id)
		if err != nil {
			return Claims{}, errors.Wrap(err, "checking session revocation")
		}
		if revoked {
			return Claims{}, ErrInvalidToken
		}
	}

	return claims, nil
}

// Revoke marks the session's token id as revoked until the token would
// have expired on its own.
func (a *Auth) Revoke(ctx context.Context, claims Claims) error {
	if a.store == nil || claims.Id == "" {
		return nil
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}

	err := a.store.Set(ctx, "session:revoked:"+claims.Id, "1", ttl)
	return errors.Wrap(err, "revoking session")
}

// AuthorizeReset records that the reset flow verified the given user and
// returns the flag token the second step must present. The flag is scoped
// to exactly that user id.
func (a *Auth) AuthorizeReset(ctx context.Context, userID int) (string, error) {
	if a.store == nil {
		return "", errors.New("reset flags have no store")
	}

	token := randomToken()

	if err := a.store.Set(ctx, "pwdreset:"+token, strconv.Itoa(userID), ResetTTL); err != nil {
		return "", errors.Wrap(err, "storing reset authorization")
	}
	return token, nil
}

// ResetUserID returns the user id a reset flag was issued for, or
// ErrResetNotAuthorized when the flag is missing or expired.
func (a *Auth) ResetUserID(ctx context.Context, token string) (int, error) {
	if a.store == nil || token == "" {
		return 0, ErrResetNotAuthorized
	}

	value, ok, err := a.store.Get(ctx, "pwdreset:"+token)
	if err != nil {
		return 0, errors.Wrap(err, "reading reset authorization")
	}
	if !ok {
		return 0, ErrResetNotAuthorized
	}

	userID, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrap(err, "parsing reset authorization")
	}
	return userID, nil
}

// ClearReset drops the reset flag once the password has been changed.
func (a *Auth) ClearReset(ctx context.Context, token string) error {
	if a.store == nil || token == "" {
		return nil
	}

	err := a.store.Del(ctx, "pwdreset:"+token)
	return errors.Wrap(err, "clearing reset authorization")
}

func randomToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for token issuance
		panic(err)
	}
	return hex.EncodeToString(buf)
}

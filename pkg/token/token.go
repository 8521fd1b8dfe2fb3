// pkg/token/token.go
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

const (
	PurposeSession = "session"
	PurposePhase2  = "phase2"

	issuer = "lu-league"
)

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrWrongPurpose   = errors.New("token was issued for a different purpose")
	ErrMissingAccount = errors.New("account_id claim is missing or zero")
)

// Claims defines the structure of the JWT claims the league issues.
type Claims struct {
	AccountID uint   `json:"account_id"`
	Role      string `json:"role"`
	Status    string `json:"status,omitempty"`
	Purpose   string `json:"purpose"`
	jwt.RegisteredClaims
}

type Options struct {
	SessionSecret string
	SessionTTL    time.Duration
	Phase2Secret  string
	Phase2TTL     time.Duration
	Clock         clockwork.Clock
}

// Issuer signs and verifies session tokens and phase 2 continuation tokens.
type Issuer struct {
	sessionSecret []byte
	sessionTTL    time.Duration
	phase2Secret  []byte
	phase2TTL     time.Duration
	clock         clockwork.Clock
}

func NewIssuer(opts Options) *Issuer {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Issuer{
		sessionSecret: []byte(opts.SessionSecret),
		sessionTTL:    opts.SessionTTL,
		phase2Secret:  []byte(opts.Phase2Secret),
		phase2TTL:     opts.Phase2TTL,
		clock:         clock,
	}
}

// IssueSession returns a login token carrying the account's id, role and status.
func (i *Issuer) IssueSession(accountID uint, role, status string) (string, error) {
	return i.sign(Claims{AccountID: accountID, Role: role, Status: status, Purpose: PurposeSession}, i.sessionSecret, i.sessionTTL)
}

// IssuePhase2 returns the time boxed credential that unlocks profile completion.
func (i *Issuer) IssuePhase2(accountID uint, role string) (string, error) {
	return i.sign(Claims{AccountID: accountID, Role: role, Purpose: PurposePhase2}, i.phase2Secret, i.phase2TTL)
}

func (i *Issuer) ParseSession(tokenString string) (*Claims, error) {
	return i.parse(tokenString, i.sessionSecret, PurposeSession)
}

func (i *Issuer) ParsePhase2(tokenString string) (*Claims, error) {
	return i.parse(tokenString, i.phase2Secret, PurposePhase2)
}

func (i *Issuer) sign(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	now := i.clock.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", claims.Purpose, err)
	}
	return signed, nil
}

func (i *Issuer) parse(tokenString string, secret []byte, purpose string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	if claims.AccountID == 0 {
		return nil, ErrMissingAccount
	}
	return claims, nil
}

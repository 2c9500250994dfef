package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid covers every verification failure: bad signature, expiry,
// malformed token, or a token of the wrong kind. Callers get no finer
// distinction on purpose.
var ErrInvalid = errors.New("invalid or expired token")

const (
	// KindSession marks long-lived session tokens (subject = user id).
	KindSession = "session"
	// KindMagicLink marks short-lived login links (subject = email).
	KindMagicLink = "magic_link"

	signingAlg = "HS256"
)

type claims struct {
	Kind string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies the two bearer token kinds. Verification is
// stateless: there is no revocation, expiry alone bounds token lifetime.
type Service struct {
	secret       []byte
	sessionTTL   time.Duration
	magicLinkTTL time.Duration
}

// NewService builds a token service signing with the master secret.
func NewService(masterSecret string, sessionTTL, magicLinkTTL time.Duration) *Service {
	return &Service{
		secret:       []byte(masterSecret),
		sessionTTL:   sessionTTL,
		magicLinkTTL: magicLinkTTL,
	}
}

// IssueSession signs a session token for the given user id.
func (s *Service) IssueSession(userID string) (string, error) {
	return s.sign(KindSession, userID, s.sessionTTL)
}

// IssueMagicLink signs a magic-link token for the given email.
func (s *Service) IssueMagicLink(email string) (string, error) {
	return s.sign(KindMagicLink, email, s.magicLinkTTL)
}

// SessionTTL reports how long issued session tokens remain valid.
func (s *Service) SessionTTL() time.Duration { return s.sessionTTL }

func (s *Service) sign(kind, subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	c := claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// VerifySession validates a session token and returns the user id it was
// issued for. A magic-link token is rejected even with a valid signature.
func (s *Service) VerifySession(tokenStr string) (string, error) {
	c, err := s.parse(tokenStr)
	if err != nil {
		return "", err
	}
	// Tokens issued before the kind claim existed carry no type; they are
	// session tokens by definition.
	if c.Kind != "" && c.Kind != KindSession {
		return "", ErrInvalid
	}
	return c.Subject, nil
}

// VerifyMagicLink validates a magic-link token and returns the email it
// was issued for. The kind claim must be present and match exactly.
func (s *Service) VerifyMagicLink(tokenStr string) (string, error) {
	c, err := s.parse(tokenStr)
	if err != nil {
		return "", err
	}
	if c.Kind != KindMagicLink {
		return "", ErrInvalid
	}
	return c.Subject, nil
}

func (s *Service) parse(tokenStr string) (*claims, error) {
	var c claims
	// WithValidMethods pins HS256: a token whose header names any other
	// algorithm fails before signature checking.
	tok, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{signingAlg}))
	if err != nil || !tok.Valid {
		return nil, ErrInvalid
	}
	if c.Subject == "" {
		return nil, ErrInvalid
	}
	return &c, nil
}

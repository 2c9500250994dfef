package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-master-secret"

func newTestService() *Service {
	return NewService(testSecret, 8*24*time.Hour, 15*time.Minute)
}

func TestSessionRoundTrip(t *testing.T) {
	svc := newTestService()

	tok, err := svc.IssueSession("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sub, err := svc.VerifySession(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "user-42" {
		t.Fatalf("expected subject user-42, got %s", sub)
	}
}

func TestMagicLinkRoundTrip(t *testing.T) {
	svc := newTestService()

	tok, err := svc.IssueMagicLink("a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	email, err := svc.VerifyMagicLink(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if email != "a@x.com" {
		t.Fatalf("expected subject a@x.com, got %s", email)
	}
}

func TestKindIsolation(t *testing.T) {
	svc := newTestService()

	session, err := svc.IssueSession("user-42")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	magic, err := svc.IssueMagicLink("a@x.com")
	if err != nil {
		t.Fatalf("issue magic link: %v", err)
	}

	if _, err := svc.VerifySession(magic); !errors.Is(err, ErrInvalid) {
		t.Fatalf("magic-link token accepted as session: %v", err)
	}
	if _, err := svc.VerifyMagicLink(session); !errors.Is(err, ErrInvalid) {
		t.Fatalf("session token accepted as magic link: %v", err)
	}
}

func TestExpiredTokensRejected(t *testing.T) {
	svc := NewService(testSecret, -time.Minute, -time.Minute)

	session, err := svc.IssueSession("user-42")
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	magic, err := svc.IssueMagicLink("a@x.com")
	if err != nil {
		t.Fatalf("issue magic link: %v", err)
	}

	if _, err := svc.VerifySession(session); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expired session accepted: %v", err)
	}
	if _, err := svc.VerifyMagicLink(magic); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expired magic link accepted: %v", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	tok, err := newTestService().IssueSession("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewService("different-secret", time.Hour, time.Hour)
	if _, err := other.VerifySession(tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("token signed with another secret accepted: %v", err)
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	svc := newTestService()
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.VerifySession(raw); !errors.Is(err, ErrInvalid) {
			t.Fatalf("malformed token %q accepted: %v", raw, err)
		}
	}
}

func TestAlgorithmConfusionRejected(t *testing.T) {
	// A token signed with "none" must be rejected even though its claims
	// are otherwise well formed.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := newTestService().VerifySession(raw); !errors.Is(err, ErrInvalid) {
		t.Fatalf("alg=none token accepted: %v", err)
	}
}

func TestVerifyTwiceSucceeds(t *testing.T) {
	// Verification is stateless: a magic link can be verified repeatedly
	// inside its TTL window.
	svc := newTestService()
	tok, err := svc.IssueMagicLink("a@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.VerifyMagicLink(tok); err != nil {
			t.Fatalf("verify attempt %d: %v", i+1, err)
		}
	}
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iris-gate/iris_gate/internal/audit"
	"github.com/iris-gate/iris_gate/internal/biometric"
	"github.com/iris-gate/iris_gate/internal/delivery"
	"github.com/iris-gate/iris_gate/internal/identity"
	"github.com/iris-gate/iris_gate/internal/token"
)

// Session is the credential handed back by every successful flow. Both
// authentication paths, iris and magic link, produce the same shape.
type Session struct {
	Token  string
	UserID string
	Email  string
}

// Service orchestrates registration, enrollment and the two login paths.
// It holds no state between calls; the user record is the only shared
// mutable resource and lives behind the repository.
type Service struct {
	users     identity.Repository
	extractor biometric.Extractor
	cipher    *biometric.Cipher
	engine    *biometric.Engine
	tokens    *token.Service
	mailer    delivery.Mailer
	recorder  audit.Recorder
	logger    *slog.Logger
}

// NewService wires the authentication orchestrator.
func NewService(users identity.Repository, extractor biometric.Extractor, cipher *biometric.Cipher,
	engine *biometric.Engine, tokens *token.Service, mailer delivery.Mailer,
	recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		users:     users,
		extractor: extractor,
		cipher:    cipher,
		engine:    engine,
		tokens:    tokens,
		mailer:    mailer,
		recorder:  recorder,
		logger:    logger,
	}
}

// Register creates an unenrolled user and issues a session token
// immediately; registration doubles as first login. Biometric-gated
// operations must check enrollment status, not just token validity.
func (s *Service) Register(ctx context.Context, email, fullName string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if strings.TrimSpace(fullName) == "" {
		return Session{}, fmt.Errorf("%w: full name is required", ErrValidation)
	}

	user := identity.User{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  strings.TrimSpace(fullName),
		Status:    identity.StatusUnenrolled,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	signed, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}

	s.record(ctx, audit.Event{UserID: user.ID, Email: email, Kind: audit.KindRegister, Outcome: audit.OutcomeSuccess})
	return Session{Token: signed, UserID: user.ID, Email: email}, nil
}

// Enroll extracts a template from the sample, seals it, and stores it on
// the user. Re-enrollment overwrites the previous template unconditionally.
func (s *Service) Enroll(ctx context.Context, userID string, sample []byte) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	tpl, err := s.extractor.Extract(sample)
	if err != nil {
		s.record(ctx, audit.Event{UserID: user.ID, Email: user.Email, Kind: audit.KindEnroll, Outcome: audit.OutcomeFailure, Detail: "extraction failed"})
		return err
	}

	sealed, err := s.cipher.Seal(tpl)
	if err != nil {
		return fmt.Errorf("seal template: %w", err)
	}

	if err := s.users.SetTemplate(ctx, user.ID, sealed); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("store template: %w", err)
	}

	s.record(ctx, audit.Event{UserID: user.ID, Email: user.Email, Kind: audit.KindEnroll, Outcome: audit.OutcomeSuccess, Confidence: tpl.Quality})
	return nil
}

// LoginIris authenticates by comparing a fresh capture against the stored
// sealed template and issues a session token on match.
func (s *Service) LoginIris(ctx context.Context, email string, sample []byte) (Session, error) {
	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("find user: %w", err)
	}
	if !user.Enrolled() {
		return Session{}, ErrNotEnrolled
	}

	candidate, err := s.extractor.Extract(sample)
	if err != nil {
		return Session{}, err
	}

	reference, err := s.cipher.Open(user.SealedTemplate)
	if err != nil {
		s.record(ctx, audit.Event{UserID: user.ID, Email: email, Kind: audit.KindIrisLogin, Outcome: audit.OutcomeFailure, Detail: "template corrupted"})
		return Session{}, ErrTemplateCorrupted
	}

	decision := s.engine.Match(candidate, reference)
	if !decision.Match {
		s.record(ctx, audit.Event{UserID: user.ID, Email: email, Kind: audit.KindIrisLogin, Outcome: audit.OutcomeFailure, Confidence: decision.Confidence})
		return Session{}, ErrAuthenticationFailed
	}

	signed, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}

	s.record(ctx, audit.Event{UserID: user.ID, Email: email, Kind: audit.KindIrisLogin, Outcome: audit.OutcomeSuccess, Confidence: decision.Confidence})
	return Session{Token: signed, UserID: user.ID, Email: email}, nil
}

// RequestMagicLink issues a magic-link token for a known email and hands
// it to the mailer. Delivery failure is logged, never surfaced: the caller
// cannot distinguish a sent link from a dropped one.
func (s *Service) RequestMagicLink(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	signed, err := s.tokens.IssueMagicLink(user.Email)
	if err != nil {
		return fmt.Errorf("issue magic link: %w", err)
	}

	if err := s.mailer.Deliver(ctx, user.Email, signed); err != nil {
		s.logger.Warn("magic link delivery failed", "email", user.Email, "error", err)
	}

	s.record(ctx, audit.Event{UserID: user.ID, Email: email, Kind: audit.KindMagicLinkRequest, Outcome: audit.OutcomeSuccess})
	return nil
}

// VerifyMagicLink exchanges a valid magic-link token for a session token.
// Every failure, including a token whose email no longer resolves, is
// reported as ErrInvalidToken.
func (s *Service) VerifyMagicLink(ctx context.Context, raw string) (Session, error) {
	email, err := s.tokens.VerifyMagicLink(raw)
	if err != nil {
		s.record(ctx, audit.Event{Kind: audit.KindMagicLinkLogin, Outcome: audit.OutcomeFailure, Detail: "token rejected"})
		return Session{}, ErrInvalidToken
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		s.record(ctx, audit.Event{Email: email, Kind: audit.KindMagicLinkLogin, Outcome: audit.OutcomeFailure, Detail: "unknown email"})
		return Session{}, ErrInvalidToken
	}

	signed, err := s.tokens.IssueSession(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}

	s.record(ctx, audit.Event{UserID: user.ID, Email: user.Email, Kind: audit.KindMagicLinkLogin, Outcome: audit.OutcomeSuccess})
	return Session{Token: signed, UserID: user.ID, Email: user.Email}, nil
}

// normalizeEmail lowercases and trims an email so uniqueness and lookups
// are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) record(ctx context.Context, event audit.Event) {
	if s.recorder == nil {
		return
	}
	event.At = time.Now().UTC()
	if err := s.recorder.Record(ctx, event); err != nil {
		s.logger.Warn("audit record failed", "kind", event.Kind, "error", err)
	}
}

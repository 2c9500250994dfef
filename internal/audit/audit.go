package audit

import (
	"context"
	"time"
)

// Event kinds recorded by the authentication flows.
const (
	KindRegister         = "register"
	KindEnroll           = "enroll"
	KindIrisLogin        = "iris_login"
	KindMagicLinkRequest = "magic_link_request"
	KindMagicLinkLogin   = "magic_link_login"
)

// Outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event is one authentication decision. Confidence carries the match
// engine's score for iris logins (zero for the other kinds) so match
// quality can be reviewed after the fact.
type Event struct {
	ID         string
	UserID     string
	Email      string
	Kind       string
	Outcome    string
	Confidence float64
	Detail     string
	At         time.Time
}

// Recorder persists authentication events. Recording is best effort; the
// flows log and continue when it fails.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

package identity

import "time"

// Status tracks enrollment progress. The transition is one-way:
// unenrolled users become enrolled on first capture and never revert.
type Status string

const (
	StatusUnenrolled Status = "unenrolled"
	StatusEnrolled   Status = "enrolled"
)

// User represents a registered principal. SealedTemplate holds the
// encrypted iris template and is opaque to everything except the
// biometric cipher; it is empty until enrollment.
type User struct {
	ID             string
	Email          string
	FullName       string
	Status         Status
	SealedTemplate []byte
	CreatedAt      time.Time
}

// Enrolled reports whether the user has a stored iris template.
func (u User) Enrolled() bool {
	return u.Status == StatusEnrolled && len(u.SealedTemplate) > 0
}

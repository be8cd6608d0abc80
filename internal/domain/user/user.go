package user

import (
	"time"

	"github.com/google/uuid"
)

// User maps a known identity-provider subject to an email address. The
// gateway never authenticates users itself; it only resolves grant addressees
// by email.
type User struct {
	SubjectID uuid.UUID
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

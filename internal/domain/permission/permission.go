package permission

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Code is one grantable permission on a bucket or an object.
type Code string

const (
	CodeCreate Code = "CREATE"
	CodeRead   Code = "READ"
	CodeUpdate Code = "UPDATE"
	CodeDelete Code = "DELETE"
	CodeManage Code = "MANAGE"
)

// Codes lists every valid permission code. Creator auto-grants insert all of
// them.
func Codes() []Code {
	return []Code{CodeCreate, CodeRead, CodeUpdate, CodeDelete, CodeManage}
}

// Normalize trims and upper-cases a raw permission code and reports whether
// the result is a valid code.
func Normalize(raw string) (Code, bool) {
	c := Code(strings.ToUpper(strings.TrimSpace(raw)))
	switch c {
	case CodeCreate, CodeRead, CodeUpdate, CodeDelete, CodeManage:
		return c, true
	default:
		return "", false
	}
}

// ResourceKind distinguishes the two independently scoped grant relations.
type ResourceKind string

const (
	KindBucket ResourceKind = "bucket"
	KindObject ResourceKind = "object"
)

// Grant is one (subject, resource, permission-code) authorization record.
// At most one row exists per triple.
type Grant struct {
	ID         uuid.UUID `json:"id"`
	SubjectID  uuid.UUID `json:"subjectId"`
	ResourceID uuid.UUID `json:"resourceId"`
	PermCode   Code      `json:"permCode"`
	CreatedBy  uuid.UUID `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Entry is one inbound grant/revoke request line: an addressee email plus the
// raw permission codes to apply.
type Entry struct {
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// Triple identifies exactly one grant row for revocation.
type Triple struct {
	SubjectID  uuid.UUID
	ResourceID uuid.UUID
	PermCode   Code
}

// Filter restricts a grant search. Nil fields impose no restriction.
type Filter struct {
	ResourceIDs []uuid.UUID
	SubjectIDs  []uuid.UUID
	PermCodes   []Code
}

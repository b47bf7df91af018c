package user

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// Role is what a User can do during their session.
type Role string

// Roles
const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

var (
	AllRoles = []Role{RoleTeacher, RoleStudent}

	ErrInvalidRole = errors.New("invalid role")

	// role-fixed profiles given to whoever logs in
	profiles = map[Role]Profile{
		RoleTeacher: {Name: "Maria Petrovna", Email: "teacher@school.com"},
		RoleStudent: {Name: "Alexey Smirnov", Email: "student@school.com"},
	}

	roleTitles = map[Role]string{
		RoleTeacher: "Teacher",
		RoleStudent: "Student",
	}
)

// ParseRole returns the Role named by `s` (case-insensitive).
func ParseRole(s string) (Role, error) {
	role := Role(core.CleanString(s, true /* lower */))
	if !role.IsValid() {
		return "", errors.Wrapf(ErrInvalidRole, "%q", s)
	}
	return role, nil
}

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleNames lists the names of AllRoles.
func RoleNames() []string {
	names := make([]string, len(AllRoles))
	for i, role := range AllRoles {
		names[i] = role.String()
	}
	return names
}

// NewRoleValidationError reports that `field` does not name a Role.
func NewRoleValidationError(field string) error {
	return core.NewValidationError(ErrInvalidRole, core.FieldError{
		Field: field,
		Error: "must be one of: " + strings.Join(RoleNames(), ", "),
	})
}

func (r Role) String() string { return string(r) }

// Title is the human readable name of the role.
func (r Role) Title() string { return roleTitles[r] }

// Profile holds the identity fixed for a Role.
type Profile struct {
	Name  string
	Email string
}

func ProfileFor(role Role) (Profile, bool) {
	p, ok := profiles[role]
	return p, ok
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// New returns the User for `role` identified by `id`.
func New(id string, role Role) (User, error) {
	p, ok := ProfileFor(role)
	if !ok {
		return User{}, errors.Wrapf(ErrInvalidRole, "%q", role)
	}
	return User{ID: id, Name: p.Name, Email: p.Email, Role: role}, nil
}

func (u User) IsTeacher() bool { return u.Role == RoleTeacher }

func (u User) IsStudent() bool { return u.Role == RoleStudent }

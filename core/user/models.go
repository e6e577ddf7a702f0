package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/luct/core"
)

// Roles
const (
	RoleStudent           = "student"
	RoleLecturer          = "lecturer"
	RolePrincipalLecturer = "principal_lecturer"
	RoleProgramLeader     = "program_leader"
)

var (
	AllRoles      = []string{RoleStudent, RoleLecturer, RolePrincipalLecturer, RoleProgramLeader}
	ReviewerRoles = []string{RolePrincipalLecturer, RoleProgramLeader}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Lecturer", Value: RoleLecturer},
		{Name: "Principal Lecturer", Value: RolePrincipalLecturer},
		{Name: "Program Leader", Value: RoleProgramLeader},
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	Faculty      string    `json:"faculty" db:"faculty"`
	PasswordHash []byte    `json:"-" db:"password"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	return u.SetPasswordWithCost(pwd, bcrypt.DefaultCost)
}

func (u *User) SetPasswordWithCost(pwd string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsLecturer() bool { return u.Role == RoleLecturer }

func (u *User) IsReviewer() bool {
	return u.Role == RolePrincipalLecturer || u.Role == RoleProgramLeader
}

// Profile is the public view of a User.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Faculty: u.Faculty}
}

// Profile is what clients get to see of a User after registration or login.
type Profile struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Faculty string `json:"faculty"`
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
	Faculty  string `json:"faculty"`
}

// Credentials is what a User logs in with.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Clean() {
	c.Email = core.CleanString(c.Email, true /* lower */)
}

// SortColumns maps the sortable fields of a User to their SQL columns.
var SortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"role":       "role",
	"faculty":    "faculty",
	"created_at": "created_at",
}

// DefaultOrdering is alphabetical.
var DefaultOrdering = []core.DBOrdering{{Field: "name", Ascending: true}}

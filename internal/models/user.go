package models

// Role describes what a signed-in user may do.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// User is an application account. Password holds either a bcrypt hash
// (accounts saved through this service) or a legacy plaintext value carried
// over from earlier data. The ID is empty until the store assigns one.
//
// Persisted document fields never use omitempty: absent optionals must reach
// the remote store as explicit nulls.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// Sanitized returns a copy safe to return to clients.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

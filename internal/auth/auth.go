package auth

// Role is the backend-assigned user role.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleBuyer Role = "BUYER"
)

// User is the authenticated profile as the backend reports it.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Session pairs the profile with its bearer token.
type Session struct {
	User  User
	Token string
}

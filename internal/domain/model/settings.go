package model

// Branding is the flat cosmetic settings mapping (agency name, colors, logo URL).
type Branding map[string]string

// Session is the demo user. Role is a flag only; nothing verifies it.
type Session struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Roles known to the dashboard.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// LoggedIn reports whether a demo user is set.
func (s Session) LoggedIn() bool { return s.Name != "" }

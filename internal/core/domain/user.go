package domain

// Role is the closed set of roles the platform assigns to a user.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleNormal     Role = "normal"
)

// ParseRole reports whether s names a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleSupervisor, RoleNormal:
		return r, true
	}
	return "", false
}

// Known reports whether r is one of the platform roles. Values received from
// the backend are kept verbatim, so a user may carry an unknown role.
func (r Role) Known() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// User models the authenticated actor as the backend describes it. The JSON
// field names are shared by the login response and the stored user slot.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// UserPatch carries a partial profile update. Nil fields are left unchanged.
type UserPatch struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Role      *Role   `json:"role,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.FirstName == nil && p.LastName == nil && p.Role == nil
}

// Apply returns a copy of u with the non-nil fields of p merged in.
func (u User) Apply(p UserPatch) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return u
}

// PatchFrom builds the patch that turns any user into a copy of u's profile
// fields. The ID is never patched.
func PatchFrom(u User) UserPatch {
	return UserPatch{
		Email:     &u.Email,
		FirstName: &u.FirstName,
		LastName:  &u.LastName,
		Role:      &u.Role,
	}
}

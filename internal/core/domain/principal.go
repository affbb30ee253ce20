package domain

import "time"

// Kind names the namespace a principal is registered in. Usernames are unique
// within a kind, not across kinds.
type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

// Role is the authorization role embedded in tokens.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// DefaultRole returns the only role a principal of kind k may hold.
func (k Kind) DefaultRole() Role {
	if k == KindAdmin {
		return RoleAdmin
	}
	return RoleUser
}

func (k Kind) Valid() bool {
	return k == KindUser || k == KindAdmin
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is a credential-holding record. PasswordHash is write-only and is
// never rendered.
type Principal struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthIdentity is the minimal claim set derived from a principal.
type AuthIdentity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Account tags a principal with the kind it was loaded from.
type Account struct {
	Kind      Kind
	Principal Principal
}

func UserAccount(p Principal) Account  { return Account{Kind: KindUser, Principal: p} }
func AdminAccount(p Principal) Account { return Account{Kind: KindAdmin, Principal: p} }

// Identity projects the account onto the claims used for authorization.
func (a Account) Identity() AuthIdentity {
	role := a.Principal.Role
	if !role.Valid() {
		role = a.Kind.DefaultRole()
	}
	return AuthIdentity{Username: a.Principal.Username, Role: role}
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

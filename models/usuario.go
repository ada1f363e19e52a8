package models

import "strconv"

// User roles.
const (
	RolAdmin    = "admin"
	RolVendedor = "vendedor"
)

// Usuario is an application account. It is the authorization source of
// truth; role policy itself is enforced by the consuming layer.
//
// Password is stored in plaintext. This is inherited from the legacy data
// model and preserved as-is so existing credentials keep working.
type Usuario struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Nombre   string `json:"nombre"`
	Role     string `json:"role"`
	Activo   bool   `json:"activo"`
}

// Key returns the record-store key of the user.
func (u Usuario) Key() string { return strconv.FormatInt(u.ID, 10) }

// SinPassword returns a copy of the user safe to persist as the current
// session record or to expose over the read contract.
func (u Usuario) SinPassword() Usuario {
	u.Password = ""
	return u
}

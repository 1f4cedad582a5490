package domain

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleVoter Role = "votante"
)

// ParseRole returns the role named by s. Unknown names yield false and must
// never be treated as authorised.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleVoter:
		return RoleVoter, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated caller of a request, decoded from its bearer token.
type Principal struct {
	ID   uint
	Role Role
	Name string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsVoter() bool {
	return p.Role == RoleVoter
}

type User struct {
	ID              uint      `json:"id"`
	NumeroColegiado string    `json:"numero_colegiado"`
	NombreCompleto  string    `json:"nombre_completo"`
	Email           string    `json:"email"`
	DPI             string    `json:"dpi"`
	FechaNacimiento time.Time `json:"fecha_nacimiento"`
	Password        string    `json:"-"`
	Role            Role      `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u User) Principal() Principal {
	return Principal{
		ID:   u.ID,
		Role: u.Role,
		Name: u.NombreCompleto,
	}
}

type Profile struct {
	UserID       uint      `json:"user_id"`
	Licenciatura string    `json:"licenciatura"`
	Carrera      string    `json:"carrera"`
	Edad         *int      `json:"edad"`
	Telefono     string    `json:"telefono"`
	Direccion    string    `json:"direccion"`
	Ciudad       string    `json:"ciudad"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserWithProfile is a user joined with its optional profile row.
type UserWithProfile struct {
	User
	Profile *Profile `json:"profile"`
}

// Credentials is what a user presents to log in. DPI and FechaNacimiento form
// the second factor required from voters.
type Credentials struct {
	NumeroColegiado string
	DPI             string
	FechaNacimiento time.Time
	Password        string
}

// SameDate reports whether a and b fall on the same calendar day, ignoring time
// of day and location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

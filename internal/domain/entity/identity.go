package entity

// Perfil is the role a session was opened under.
type Perfil string

const (
	PerfilUsuario  Perfil = "usuario"
	PerfilAdvogado Perfil = "advogado"
	PerfilAdmin    Perfil = "admin"
)

// Identity is the session identity persisted client-side between logins.
// It is cleared wholesale and replaced on every successful login.
type Identity struct {
	ID      int64  `json:"id"`
	Perfil  Perfil `json:"perfil"`
	Nome    string `json:"nome"`
	Usuario string `json:"usuario,omitempty"`
	Email   string `json:"email,omitempty"`
	OAB     string `json:"oab,omitempty"`
}

// Advogado is one entry of the lawyer directory.
type Advogado struct {
	ID           int64  `json:"id"`
	NomeCompleto string `json:"nome_completo"`
	Usuario      string `json:"usuario"`
	OAB          string `json:"oab"`
}

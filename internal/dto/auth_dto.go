package dto

type LoginRequest struct {
	Usuario  string `json:"usuario"  validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        UsuarioResponse `json:"user"`
}

type CrearUsuarioRequest struct {
	Nombre   string `json:"nombre"   validate:"required"`
	Usuario  string `json:"usuario"  validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Rol      string `json:"rol"      validate:"required,oneof=admin vendedor"`
}

type ActualizarUsuarioRequest struct {
	Nombre   string  `json:"nombre" validate:"required"`
	Rol      string  `json:"rol"    validate:"required,oneof=admin vendedor"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Activo   *bool   `json:"activo"`
}

type UsuarioResponse struct {
	ID      string `json:"id"`
	Nombre  string `json:"nombre"`
	Usuario string `json:"usuario"`
	Rol     string `json:"rol"`
	Activo  bool   `json:"activo"`
}

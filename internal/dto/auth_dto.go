package dto

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
	Usuario   UsuarioResponse `json:"usuario"`
}

type CrearUsuarioRequest struct {
	Email          string `json:"email"           validate:"required,email"`
	Password       string `json:"password"        validate:"required,min=6"`
	NombreCompleto string `json:"nombre_completo" validate:"required,min=2"`
	Rol            string `json:"rol"             validate:"required,oneof=admin cajero panadero"`
}

type UsuarioResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	NombreCompleto string `json:"nombre_completo"`
	Rol            string `json:"rol"`
	Activo         bool   `json:"activo"`
}

package dto

import "time"

// CreateUserRequest entrada para crear un usuario de staff (password en texto, se hashea en use case).
type CreateUserRequest struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Apellido  *string `json:"apellido"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	Perfil    string  `json:"perfil"`
	Estado    string  `json:"estado"`
	FuncionID *string `json:"funcion_id"`
	EmpresaID *string `json:"empresa_id"`
	SedeID    *string `json:"sede_id"`
}

// UpdateUserRequest actualización parcial; Password vacío conserva el actual.
type UpdateUserRequest struct {
	Nombre    *string `json:"nombre"`
	Apellido  *string `json:"apellido"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	Perfil    *string `json:"perfil"`
	Estado    *string `json:"estado"`
	FuncionID *string `json:"funcion_id"`
	SedeID    *string `json:"sede_id"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID            string     `json:"id"`
	Nombre        string     `json:"nombre"`
	Apellido      *string    `json:"apellido"`
	Username      string     `json:"username"`
	Perfil        string     `json:"perfil"`
	Estado        string     `json:"estado"`
	FuncionID     *string    `json:"funcion_id"`
	EmpresaID     *string    `json:"empresa_id"`
	SedeID        *string    `json:"sede_id"`
	Actualizacion *time.Time `json:"ultima_actualizacion"`
}

// LoginRequest login de staff.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"usuario"`
}

// RegisterClientRequest registro de cliente de la app móvil.
type RegisterClientRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClientLoginRequest login de cliente.
type ClientLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClientResponse salida de un cliente. AccessToken solo viene en el login.
type ClientResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
}

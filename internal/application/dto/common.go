package dto

// ErrorResponse cuerpo de error HTTP. Detail repite Message para clientes que leen "detail".
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// MessageResponse confirmación simple (ej. eliminaciones).
type MessageResponse struct {
	Mensaje string `json:"mensaje"`
}

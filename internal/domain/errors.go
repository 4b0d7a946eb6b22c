package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Las categorías base determinan el código HTTP; los errores específicos las envuelven
// y aportan el mensaje que ve el cliente.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrTransient    = errors.New("almacenamiento no disponible temporalmente")
)

var (
	ErrCompanyNotFound  = Wrap(ErrNotFound, "Empresa no encontrada")
	ErrBranchNotFound   = Wrap(ErrNotFound, "Sede no encontrada")
	ErrServiceNotFound  = Wrap(ErrNotFound, "Servicio no encontrado")
	ErrTicketNotFound   = Wrap(ErrNotFound, "Ticket no encontrado")
	ErrLocationNotFound = Wrap(ErrNotFound, "Locación no encontrada")
	ErrFunctionNotFound = Wrap(ErrNotFound, "Función no encontrada")
	ErrUserNotFound     = Wrap(ErrNotFound, "Usuario no encontrado")
	ErrClientNotFound   = Wrap(ErrNotFound, "Cliente no encontrado")

	ErrInvalidRange      = Wrap(ErrInvalidInput, "rango inválido")
	ErrBranchMismatch    = Wrap(ErrInvalidInput, "el servicio no pertenece a la sede indicada")
	ErrUsernameTaken     = Wrap(ErrInvalidInput, "El username ya está en uso")
	ErrEmailTaken        = Wrap(ErrInvalidInput, "Email ya registrado")
	ErrInvalidCredential = Wrap(ErrUnauthorized, "Credenciales inválidas")

	ErrServiceInactive   = Wrap(ErrConflict, "El servicio está inactivo")
	ErrInvalidTransition = Wrap(ErrConflict, "transición de estado no permitida")
	ErrServiceHasTickets = Wrap(ErrConflict, "El servicio tiene tickets; desactívelo en lugar de eliminarlo")
	ErrIdempotencyReuse  = Wrap(ErrConflict, "La clave de idempotencia ya se usó con otro servicio o sede")
)

// Error es un error de dominio con mensaje propio que pertenece a una categoría base.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Wrap crea un error con mensaje msg que satisface errors.Is(err, kind).
func Wrap(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Invalid crea un error de validación con el mensaje indicado.
func Invalid(msg string) error {
	return Wrap(ErrInvalidInput, msg)
}

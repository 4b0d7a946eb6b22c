package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/turnos-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta fn en una transacción con los repositorios que mantienen
// los contadores de la empresa (cantidad_sedes, cantidad_usuarios).
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		companies repository.CompanyRepository,
		branches repository.BranchRepository,
		users repository.UserRepository,
	) error) error
}

// newID usa el id recibido o genera uno.
func newID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.New().String()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

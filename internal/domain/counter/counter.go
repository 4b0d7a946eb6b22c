// Package counter emite números de turno a partir del contador de un servicio.
//
// Regla: si la última emisión fue otro día (o nunca) el contador vuelve a
// RangeStart; se emite el valor actual y el contador avanza, volviendo a
// RangeStart al superar RangeEnd. Las funciones son puras sobre el Service;
// la serialización por servicio es responsabilidad de quien las invoca.
package counter

import (
	"fmt"
	"time"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/pkg/clock"
)

// Advance emite el siguiente número de svc en la fecha de now y deja svc
// listo para la próxima emisión. now.Location() define el día de calendario.
func Advance(svc *entity.Service, now time.Time) (int, error) {
	if !svc.Active {
		return 0, domain.ErrServiceInactive
	}
	if err := ValidateRange(svc.RangeStart, svc.RangeEnd); err != nil {
		return 0, err
	}

	if svc.LastIssued == nil || !clock.SameDay(*svc.LastIssued, now, now.Location()) {
		svc.Current = svc.RangeStart
	}
	if svc.Current < svc.RangeStart || svc.Current > svc.RangeEnd {
		svc.Current = svc.RangeStart
	}

	issued := svc.Current
	next := issued + 1
	if next > svc.RangeEnd {
		next = svc.RangeStart
	}
	svc.Current = next
	svc.LastIssued = &now
	return issued, nil
}

// TicketCode renderiza el código de ticket: letra, guion y número sin relleno ("A-7").
func TicketCode(letter string, n int) string {
	return fmt.Sprintf("%s-%d", letter, n)
}

// TurnoCode renderiza el turno de vista previa: letra y número a tres dígitos ("B007").
func TurnoCode(letter string, n int) string {
	return fmt.Sprintf("%s%03d", letter, n)
}

// ValidateRange comprueba que ambos extremos estén en [1, 999] y que inicio < fin.
func ValidateRange(start, end int) error {
	if start < entity.MinRange || start > entity.MaxRange {
		return domain.Wrap(domain.ErrInvalidRange, "rango_inicio debe estar entre 1 y 999")
	}
	if end < entity.MinRange || end > entity.MaxRange {
		return domain.Wrap(domain.ErrInvalidRange, "rango_fin debe estar entre 1 y 999")
	}
	if start >= end {
		return domain.Wrap(domain.ErrInvalidRange, "rango_inicio debe ser menor que rango_fin")
	}
	return nil
}

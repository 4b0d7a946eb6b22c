// Package clock abstrae el tiempo para que la emisión de turnos, el
// reinicio diario y el canal en vivo se puedan probar sin esperar.
package clock

import "time"

// Clock entrega la hora actual y temporizadores de un solo disparo.
type Clock interface {
	Now() time.Time
	// After equivale a time.After. Con d <= 0 dispara de inmediato.
	After(d time.Duration) <-chan time.Time
}

type realClock struct {
	loc *time.Location
}

// Real devuelve el reloj del sistema expresado en loc (UTC si es nil).
// La zona define qué es "hoy" para el reinicio diario de contadores.
func Real(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return realClock{loc: loc}
}

func (r realClock) Now() time.Time { return time.Now().In(r.loc) }

func (r realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SameDay indica si a y b caen en la misma fecha de calendario en loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

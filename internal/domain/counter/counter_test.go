package counter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
)

func newService(start, end int) *entity.Service {
	return &entity.Service{
		ID: "svc-1", BranchID: "sede-1", Name: "Caja", Letter: "A",
		RangeStart: start, RangeEnd: end, Current: start, Active: true,
	}
}

var today = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

func TestAdvance_TresEmisionesYVuelta(t *testing.T) {
	svc := newService(1, 3)

	var codes []string
	for i := 0; i < 4; i++ {
		n, err := Advance(svc, today.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		codes = append(codes, TicketCode(svc.Letter, n))
	}

	assert.Equal(t, []string{"A-1", "A-2", "A-3", "A-1"}, codes)
}

func TestAdvance_ReinicioDiario(t *testing.T) {
	svc := newService(1, 3)
	yesterday := today.AddDate(0, 0, -1)
	svc.LastIssued = &yesterday
	svc.Current = 3

	n, err := Advance(svc, today)
	require.NoError(t, err)

	assert.Equal(t, "A-1", TicketCode(svc.Letter, n))
	assert.Equal(t, 2, svc.Current)
	require.NotNil(t, svc.LastIssued)
	assert.True(t, svc.LastIssued.Equal(today))
}

func TestTurnoCode_RellenoTresDigitos(t *testing.T) {
	svc := newService(1, 20)
	svc.Letter = "B"
	svc.Current = 7
	svc.LastIssued = &today

	n, err := Advance(svc, today.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 7, n)
	assert.Equal(t, "B007", TurnoCode(svc.Letter, n))
	assert.Equal(t, "B-7", TicketCode(svc.Letter, n))
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestAdvance_MonotoniaYRango(t *testing.T) {
	ranges := []struct{ start, end int }{{1, 2}, {1, 3}, {5, 9}, {998, 999}, {1, 999}}

	for _, r := range ranges {
		svc := newService(r.start, r.end)
		prev, err := Advance(svc, today)
		require.NoError(t, err)
		assert.Equal(t, r.start, prev)

		for i := 0; i < 2*(r.end-r.start+1)+3; i++ {
			n, err := Advance(svc, today)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, n, r.start)
			assert.LessOrEqual(t, n, r.end)
			if prev+1 > r.end {
				assert.Equal(t, r.start, n, "debe volver al inicio tras %d", prev)
			} else {
				assert.Equal(t, prev+1, n)
			}
			assert.GreaterOrEqual(t, svc.Current, r.start)
			assert.LessOrEqual(t, svc.Current, r.end)
			prev = n
		}
	}
}

func TestAdvance_ReinicioIgnoraContadorPrevio(t *testing.T) {
	for _, current := range []int{1, 4, 10} {
		svc := newService(4, 10)
		svc.Current = current
		lastWeek := today.AddDate(0, 0, -7)
		svc.LastIssued = &lastWeek

		n, err := Advance(svc, today)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	}
}

func TestAdvance_DiaSegunZonaDeNow(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	svc := newService(1, 10)

	// 22:00 del 19 en Bogotá = 03:00 del 20 en UTC
	late := time.Date(2026, 5, 19, 22, 0, 0, 0, bogota)
	_, err := Advance(svc, late)
	require.NoError(t, err)

	n, err := Advance(svc, time.Date(2026, 5, 19, 23, 59, 0, 0, bogota))
	require.NoError(t, err)
	assert.Equal(t, 2, n, "misma fecha local no reinicia")

	n, err = Advance(svc, time.Date(2026, 5, 20, 0, 1, 0, 0, bogota))
	require.NoError(t, err)
	assert.Equal(t, 1, n, "nueva fecha local reinicia")
}

func TestAdvance_ServicioInactivo(t *testing.T) {
	svc := newService(1, 3)
	svc.Active = false

	_, err := Advance(svc, today)

	assert.ErrorIs(t, err, domain.ErrServiceInactive)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, svc.Current)
	assert.Nil(t, svc.LastIssued)
}

func TestValidateRange(t *testing.T) {
	cases := []struct {
		start, end int
		msg        string
	}{
		{1, 999, ""},
		{1, 2, ""},
		{0, 5, "rango_inicio debe estar entre 1 y 999"},
		{1000, 1001, "rango_inicio debe estar entre 1 y 999"},
		{1, 1000, "rango_fin debe estar entre 1 y 999"},
		{5, 5, "rango_inicio debe ser menor que rango_fin"},
		{9, 3, "rango_inicio debe ser menor que rango_fin"},
	}

	for _, tc := range cases {
		err := ValidateRange(tc.start, tc.end)
		if tc.msg == "" {
			assert.NoError(t, err)
			continue
		}
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, tc.msg, err.Error())
	}
}

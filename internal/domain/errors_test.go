package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_ConservaCategoria(t *testing.T) {
	assert.ErrorIs(t, ErrServiceNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrServiceInactive, ErrConflict)
	assert.ErrorIs(t, ErrUsernameTaken, ErrInvalidInput)
	assert.Equal(t, "Servicio no encontrado", ErrServiceNotFound.Error())
}

func TestWrap_Encadenado(t *testing.T) {
	err := Wrap(ErrInvalidRange, "rango_inicio debe estar entre 1 y 999")
	wrapped := fmt.Errorf("crear servicio: %w", err)

	assert.True(t, errors.Is(wrapped, ErrInvalidRange))
	assert.True(t, errors.Is(wrapped, ErrInvalidInput))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "rango_inicio debe estar entre 1 y 999", err.Error())
}

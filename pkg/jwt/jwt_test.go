package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func TestGenerateParse_RoundTrip(t *testing.T) {
	sub := Subject{ID: "u-1", CompanyID: "emp-1", Role: "asesor", Kind: KindStaff}

	token, err := Generate(testSecret, "turnos-api", sub, time.Hour)
	require.NoError(t, err)

	got, err := Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, sub, got)
}

func TestParse_SecretoIncorrecto(t *testing.T) {
	token, err := Generate(testSecret, "turnos-api", Subject{ID: "c-1", Kind: KindClient}, time.Hour)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := Generate(testSecret, "turnos-api", Subject{ID: "c-1", Kind: KindClient}, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(testSecret, token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "turnos-api", Subject{ID: "x"}, time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = Parse("", "abc")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de sujeto emitidos por la API.
const (
	KindStaff  = "usuario"
	KindClient = "cliente"
)

// ErrEmptySecret se devuelve cuando no hay secreto configurado.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// Subject identifica a quién pertenece el token.
type Subject struct {
	ID        string
	CompanyID string // vacío para clientes
	Role      string // perfil del usuario de staff
	Kind      string // KindStaff | KindClient
}

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
type Claims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"empresa_id,omitempty"`
	Role      string `json:"perfil,omitempty"`
	Kind      string `json:"tipo"`
}

// Generate firma un token HS256 para el sujeto con la duración indicada.
func Generate(secret, issuer string, sub Subject, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		CompanyID: sub.CompanyID,
		Role:      sub.Role,
		Kind:      sub.Kind,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida el token y devuelve el sujeto.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Subject, error) {
	if secret == "" {
		return Subject{}, ErrEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Subject{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return Subject{}, fmt.Errorf("claims inválidos")
	}
	return Subject{
		ID:        claims.Subject,
		CompanyID: claims.CompanyID,
		Role:      claims.Role,
		Kind:      claims.Kind,
	}, nil
}

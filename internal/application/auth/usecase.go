// Package auth contiene el login de staff y el registro/login de clientes de la app móvil.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/domain/entity"
	"github.com/jhoicas/turnos-api/internal/domain/repository"
	"github.com/jhoicas/turnos-api/pkg/clock"
	"github.com/jhoicas/turnos-api/pkg/jwt"
	"github.com/jhoicas/turnos-api/pkg/sanitize"
)

// TokenType valor de token_type en las respuestas de login.
const TokenType = "bearer"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

func (c JWTConfig) ttl() time.Duration {
	if c.ExpMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.ExpMinutes) * time.Minute
}

// AuthUseCase login de usuarios de staff.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Usuario desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredential
	}
	if user.Status != entity.UserActive {
		return nil, domain.ErrForbidden
	}
	sub := jwt.Subject{ID: user.ID, Role: user.Profile, Kind: jwt.KindStaff}
	if user.CompanyID != nil {
		sub.CompanyID = *user.CompanyID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, sub, uc.jwtCfg.ttl())
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   TokenType,
		User:        *usecase.ToUserResponse(user),
	}, nil
}

// ClientUseCase registro y login de clientes.
type ClientUseCase struct {
	repo   repository.ClientRepository
	jwtCfg JWTConfig
	clock  clock.Clock
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, jwtCfg JWTConfig, clk clock.Clock) *ClientUseCase {
	return &ClientUseCase{repo: repo, jwtCfg: jwtCfg, clock: clk}
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", domain.Invalid("email inválido")
	}
	return s, nil
}

// Register crea el cliente. Devuelve domain.ErrEmailTaken si el email ya existe.
func (uc *ClientUseCase) Register(ctx context.Context, in dto.RegisterClientRequest) (*dto.ClientResponse, error) {
	if blank(in.Nombre) {
		return nil, domain.Invalid("nombre es obligatorio")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}
	hash, err := usecase.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	client := &entity.Client{
		ID:           uuid.New().String(),
		Name:         sanitize.Text(in.Nombre),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    uc.clock.Now(),
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return toClientResponse(client), nil
}

// Login valida credenciales del cliente y devuelve sus datos con el token.
func (uc *ClientUseCase) Login(ctx context.Context, in dto.ClientLoginRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredential
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, jwt.Subject{ID: client.ID, Kind: jwt.KindClient}, uc.jwtCfg.ttl())
	if err != nil {
		return nil, err
	}
	out := toClientResponse(client)
	out.AccessToken = token
	out.TokenType = TokenType
	return out, nil
}

// Me devuelve el cliente autenticado.
func (uc *ClientUseCase) Me(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}
	return toClientResponse(client), nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{ID: c.ID, Nombre: c.Name, Email: c.Email}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

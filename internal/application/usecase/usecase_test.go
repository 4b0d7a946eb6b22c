package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/turnos-api/internal/application/dto"
	"github.com/jhoicas/turnos-api/internal/application/usecase"
	"github.com/jhoicas/turnos-api/internal/domain"
	"github.com/jhoicas/turnos-api/internal/infrastructure/memory"
	"github.com/jhoicas/turnos-api/pkg/clock"
)

var start = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)

type env struct {
	store     *memory.Store
	repos     memory.Repos
	clock     *clock.FakeClock
	companies *usecase.CompanyUseCase
	branches  *usecase.BranchUseCase
	services  *usecase.ServiceUseCase
	locations *usecase.LocationUseCase
	functions *usecase.FunctionUseCase
	users     *usecase.UserUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	clk := clock.Fake(start)
	return &env{
		store:     store,
		repos:     repos,
		clock:     clk,
		companies: usecase.NewCompanyUseCase(repos.Companies, clk),
		branches:  usecase.NewBranchUseCase(store, repos.Branches, repos.Companies, clk),
		services:  usecase.NewServiceUseCase(repos.Services, repos.Branches),
		locations: usecase.NewLocationUseCase(repos.Locations, repos.Branches, clk),
		functions: usecase.NewFunctionUseCase(repos.Functions, repos.Branches),
		users:     usecase.NewUserUseCase(store, repos.Users, clk),
	}
}

func (e *env) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := e.companies.Create(ctx, dto.CreateCompanyRequest{ID: "emp-1", Nombre: "Clínica Sur"})
	require.NoError(t, err)
	_, err = e.branches.Create(ctx, dto.BranchRequest{ID: "sede-1", Nombre: "Centro", EmpresaID: "emp-1"})
	require.NoError(t, err)
}

func str(s string) *string { return &s }

func TestCompany_CRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	c, err := e.companies.Create(ctx, dto.CreateCompanyRequest{Nombre: "  <b>Acme</b> ", Direccion: str("Calle 1")})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Acme", c.Nombre)
	assert.Zero(t, c.CantidadSedes)

	_, err = e.companies.Create(ctx, dto.CreateCompanyRequest{Nombre: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	e.clock.Advance(time.Minute)
	up, err := e.companies.Update(ctx, c.ID, dto.UpdateCompanyRequest{Descripcion: str("salud")})
	require.NoError(t, err)
	assert.Equal(t, "Acme", up.Nombre)
	require.NotNil(t, up.Descripcion)
	assert.Equal(t, "salud", *up.Descripcion)
	require.NotNil(t, up.Actualizacion)
	assert.True(t, up.Actualizacion.Equal(start.Add(time.Minute)))

	require.NoError(t, e.companies.Delete(ctx, c.ID))
	_, err = e.companies.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
	assert.ErrorIs(t, e.companies.Delete(ctx, c.ID), domain.ErrNotFound)
}

func TestBranch_MantieneCantidadSedes(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	ctx := context.Background()

	_, err := e.companies.Create(ctx, dto.CreateCompanyRequest{ID: "emp-2", Nombre: "Otra"})
	require.NoError(t, err)
	_, err = e.branches.Create(ctx, dto.BranchRequest{ID: "sede-2", Nombre: "Norte", EmpresaID: "emp-1"})
	require.NoError(t, err)

	c, err := e.companies.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.CantidadSedes)

	_, err = e.branches.Update(ctx, "sede-2", dto.BranchRequest{Nombre: "Norte", EmpresaID: "emp-2"})
	require.NoError(t, err)
	c1, _ := e.companies.GetByID(ctx, "emp-1")
	c2, _ := e.companies.GetByID(ctx, "emp-2")
	assert.Equal(t, 1, c1.CantidadSedes)
	assert.Equal(t, 1, c2.CantidadSedes)

	require.NoError(t, e.branches.Delete(ctx, "sede-2"))
	c2, _ = e.companies.GetByID(ctx, "emp-2")
	assert.Zero(t, c2.CantidadSedes)

	list, err := e.branches.List(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "sede-1", list[0].ID)
}

func TestBranch_EmpresaInexistenteNoDejaRastro(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.branches.Create(ctx, dto.BranchRequest{ID: "sede-x", Nombre: "X", EmpresaID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)

	_, err = e.branches.GetByID(ctx, "sede-x")
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)
}

func TestService_Create(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	ctx := context.Background()

	svc, err := e.services.Create(ctx, dto.CreateServiceRequest{Nombre: "Caja", SedeID: "sede-1", IdentificadorLetra: " ñ ", RangoInicio: 5, RangoFin: 20})
	require.NoError(t, err)
	assert.Equal(t, "Ñ", svc.IdentificadorLetra)
	assert.Equal(t, 5, svc.ContadorActual)
	assert.True(t, svc.Activo)
	assert.Nil(t, svc.UltimaGeneracion)

	cases := []struct {
		name string
		in   dto.CreateServiceRequest
		want error
	}{
		{"rango invertido", dto.CreateServiceRequest{Nombre: "A", SedeID: "sede-1", IdentificadorLetra: "A", RangoInicio: 10, RangoFin: 5}, domain.ErrInvalidInput},
		{"fuera de 1..999", dto.CreateServiceRequest{Nombre: "A", SedeID: "sede-1", IdentificadorLetra: "A", RangoInicio: 0, RangoFin: 5}, domain.ErrInvalidInput},
		{"sin letra", dto.CreateServiceRequest{Nombre: "A", SedeID: "sede-1", RangoInicio: 1, RangoFin: 5}, domain.ErrInvalidInput},
		{"sede inexistente", dto.CreateServiceRequest{Nombre: "A", SedeID: "nada", IdentificadorLetra: "A", RangoInicio: 1, RangoFin: 5}, domain.ErrBranchNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.services.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestService_ActivarYEliminar(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	ctx := context.Background()

	svc, err := e.services.Create(ctx, dto.CreateServiceRequest{ID: "svc-a", Nombre: "Caja", SedeID: "sede-1", IdentificadorLetra: "A", RangoInicio: 1, RangoFin: 9})
	require.NoError(t, err)

	off, err := e.services.SetActive(ctx, svc.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Activo)

	_, err = e.services.SetActive(ctx, "nada", true)
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)

	list, err := e.services.List(ctx, "sede-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, e.services.Delete(ctx, svc.ID))
	assert.ErrorIs(t, e.services.Delete(ctx, svc.ID), domain.ErrServiceNotFound)
}

func TestLocationAndFunction(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	ctx := context.Background()

	_, err := e.services.Create(ctx, dto.CreateServiceRequest{ID: "svc-a", Nombre: "Caja", SedeID: "sede-1", IdentificadorLetra: "A", RangoInicio: 1, RangoFin: 9})
	require.NoError(t, err)

	loc, err := e.locations.Create(ctx, dto.LocationRequest{Nombre: "Ventanilla 1", SedeID: "sede-1"})
	require.NoError(t, err)
	_, err = e.locations.Create(ctx, dto.LocationRequest{Nombre: "V", SedeID: "nada"})
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)

	up, err := e.locations.Update(ctx, loc.ID, dto.LocationRequest{Nombre: "Ventanilla 2", SedeID: "sede-1"})
	require.NoError(t, err)
	assert.Equal(t, "Ventanilla 2", up.Nombre)
	require.NoError(t, e.locations.Delete(ctx, loc.ID))
	assert.ErrorIs(t, e.locations.Delete(ctx, loc.ID), domain.ErrLocationNotFound)

	fn, err := e.functions.Create(ctx, dto.FunctionRequest{Nombre: "Cajero", SedeID: "sede-1", Servicios: []string{"svc-a", "svc-a"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"svc-a"}, fn.Servicios)

	_, err = e.functions.Update(ctx, fn.ID, dto.FunctionRequest{Nombre: "Cajero", SedeID: "sede-1", Servicios: []string{"nada"}})
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)

	cleared, err := e.functions.Update(ctx, fn.ID, dto.FunctionRequest{Nombre: "Cajero", SedeID: "sede-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, cleared.Servicios)

	require.NoError(t, e.functions.Delete(ctx, fn.ID))
	_, err = e.functions.GetByID(ctx, fn.ID)
	assert.ErrorIs(t, err, domain.ErrFunctionNotFound)
}

func TestUser_CreateYContadores(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	ctx := context.Background()

	u, err := e.users.Create(ctx, dto.CreateUserRequest{Nombre: "Ana", Username: "ana", Password: "secreto1", SedeID: str("sede-1")})
	require.NoError(t, err)
	require.NotNil(t, u.EmpresaID)
	assert.Equal(t, "emp-1", *u.EmpresaID)
	assert.Equal(t, "operador", u.Perfil)
	assert.Equal(t, "activo", u.Estado)

	stored, err := e.repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto1", stored.PasswordHash)

	c, _ := e.companies.GetByID(ctx, "emp-1")
	assert.Equal(t, 1, c.CantidadUsuarios)

	_, err = e.users.Create(ctx, dto.CreateUserRequest{Nombre: "Otra", Username: "ana", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = e.users.Create(ctx, dto.CreateUserRequest{Nombre: "Bea", Username: "bea", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.users.Create(ctx, dto.CreateUserRequest{Nombre: "Bea", Username: "bea", Password: "secreto1", Perfil: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, e.users.Delete(ctx, u.ID))
	c, _ = e.companies.GetByID(ctx, "emp-1")
	assert.Zero(t, c.CantidadUsuarios)
	assert.ErrorIs(t, e.users.Delete(ctx, u.ID), domain.ErrUserNotFound)
}

func TestUser_UpdateParcial(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	ctx := context.Background()

	a, err := e.users.Create(ctx, dto.CreateUserRequest{Nombre: "Ana", Username: "ana", Password: "secreto1"})
	require.NoError(t, err)
	_, err = e.users.Create(ctx, dto.CreateUserRequest{Nombre: "Bea", Username: "bea", Password: "secreto1"})
	require.NoError(t, err)

	_, err = e.users.Update(ctx, a.ID, dto.UpdateUserRequest{Username: str("bea")})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	up, err := e.users.Update(ctx, a.ID, dto.UpdateUserRequest{Estado: str("inactivo"), SedeID: str("sede-1")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", up.Nombre)
	assert.Equal(t, "inactivo", up.Estado)
	require.NotNil(t, up.EmpresaID)
	assert.Equal(t, "emp-1", *up.EmpresaID)

	c, _ := e.companies.GetByID(ctx, "emp-1")
	assert.Equal(t, 1, c.CantidadUsuarios)

	list, err := e.users.List(ctx, "sede-1", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ana", list[0].Username)
}

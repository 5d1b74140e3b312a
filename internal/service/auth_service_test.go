package service

import (
	"context"
	"testing"
	"time"

	"migapos/internal/dto"
	"migapos/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "secreto-de-pruebas"

func newAuthFixture(t *testing.T) (AuthService, *stubUsuarioRepo) {
	t.Helper()
	usuarios := newStubUsuarioRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("panaderia123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, usuarios.Create(context.Background(), &model.Usuario{
		TenantID:       tenant,
		Email:          "admin@migapos.cl",
		PasswordHash:   string(hash),
		NombreCompleto: "Admin",
		Rol:            model.RolAdmin,
		Activo:         true,
	}))
	return NewAuthService(usuarios, testSecret, time.Hour), usuarios
}

func TestLoginEmiteTokenConClaims(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "admin@migapos.cl",
		Password: "panaderia123",
	})
	require.NoError(t, err)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, model.RolAdmin, resp.Usuario.Rol)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, tenant.String(), claims["tenant_id"])
	assert.Equal(t, model.RolAdmin, claims["rol"])
	assert.NotEmpty(t, claims["user_id"])
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	svc, usuarios := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "admin@migapos.cl",
		Password: "incorrecta",
	})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@migapos.cl",
		Password: "panaderia123",
	})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)

	// Usuario desactivado no puede entrar.
	for id := range usuarios.usuarios {
		require.NoError(t, usuarios.SoftDelete(context.Background(), tenant, id))
	}
	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "admin@migapos.cl",
		Password: "panaderia123",
	})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)
}

func TestCrearUsuarioEmailDuplicado(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.CrearUsuario(context.Background(), tenant, dto.CrearUsuarioRequest{
		Email:          "admin@migapos.cl",
		Password:       "otra",
		NombreCompleto: "Otro",
		Rol:            model.RolCajero,
	})
	assert.ErrorIs(t, err, ErrEmailEnUso)
}

func TestCrearUsuarioHasheaPassword(t *testing.T) {
	svc, usuarios := newAuthFixture(t)

	creado, err := svc.CrearUsuario(context.Background(), tenant, dto.CrearUsuarioRequest{
		Email:          "cajero@migapos.cl",
		Password:       "secreta1",
		NombreCompleto: "Cajero Uno",
		Rol:            model.RolCajero,
	})
	require.NoError(t, err)

	u, err := usuarios.FindByEmail(context.Background(), "cajero@migapos.cl")
	require.NoError(t, err)
	assert.NotEqual(t, "secreta1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secreta1")))
	assert.Equal(t, creado.ID, u.ID.String())
}

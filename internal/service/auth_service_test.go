package service_test

import (
	"context"
	"testing"
	"time"

	"forrapos/internal/dto"
	"forrapos/internal/model"
	"forrapos/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-pruebas"

func nuevoAuth(t *testing.T) (service.AuthService, *stubUsuarioRepo) {
	t.Helper()
	repo := newStubUsuarioRepo()
	return service.NewAuthService(repo, testSecret, 8*time.Hour), repo
}

func TestLogin_EmiteJWTConClaims(t *testing.T) {
	svc, _ := nuevoAuth(t)

	creado, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Nombre: "Laura", Usuario: "laura", Password: "secreta1", Rol: model.RolAdmin,
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Usuario: "laura", Password: "secreta1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int((8 * time.Hour).Seconds()), resp.ExpiresIn)
	assert.Equal(t, creado.ID, resp.User.ID)

	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	assert.Equal(t, creado.ID, claims.UsuarioID)
	assert.Equal(t, model.RolAdmin, claims.Rol)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	svc, _ := nuevoAuth(t)

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Nombre: "Laura", Usuario: "laura", Password: "secreta1", Rol: model.RolAdmin,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Usuario: "laura", Password: "otra"})
	assert.ErrorIs(t, err, service.ErrCredencialesInvalidas)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	svc, _ := nuevoAuth(t)

	creado, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Nombre: "Laura", Usuario: "laura", Password: "secreta1", Rol: model.RolVendedor,
	})
	require.NoError(t, err)

	inactivo := false
	_, err = svc.ActualizarUsuario(context.Background(), uuid.MustParse(creado.ID), dto.ActualizarUsuarioRequest{
		Nombre: "Laura", Rol: model.RolVendedor, Activo: &inactivo,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Usuario: "laura", Password: "secreta1"})
	assert.ErrorIs(t, err, service.ErrCredencialesInvalidas)
}

func TestCrearUsuario_NombreDuplicado(t *testing.T) {
	svc, _ := nuevoAuth(t)

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Nombre: "Laura", Usuario: "laura", Password: "secreta1", Rol: model.RolAdmin,
	})
	require.NoError(t, err)

	_, err = svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Nombre: "Otra Laura", Usuario: "laura", Password: "secreta2", Rol: model.RolVendedor,
	})
	assert.ErrorIs(t, err, service.ErrUsuarioDuplicado)
}

func TestActualizarUsuario_CambiaPassword(t *testing.T) {
	svc, _ := nuevoAuth(t)

	creado, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Nombre: "Laura", Usuario: "laura", Password: "secreta1", Rol: model.RolAdmin,
	})
	require.NoError(t, err)

	nueva := "renovada9"
	_, err = svc.ActualizarUsuario(context.Background(), uuid.MustParse(creado.ID), dto.ActualizarUsuarioRequest{
		Nombre: "Laura", Rol: model.RolAdmin, Password: &nueva,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Usuario: "laura", Password: "secreta1"})
	assert.Error(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Usuario: "laura", Password: nueva})
	assert.NoError(t, err)
}

func TestListarUsuarios_ExcluyeInactivosPorDefecto(t *testing.T) {
	svc, _ := nuevoAuth(t)

	activa, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Nombre: "Laura", Usuario: "laura", Password: "secreta1", Rol: model.RolAdmin,
	})
	require.NoError(t, err)
	baja, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Nombre: "Pedro", Usuario: "pedro", Password: "secreta2", Rol: model.RolVendedor,
	})
	require.NoError(t, err)

	inactivo := false
	_, err = svc.ActualizarUsuario(context.Background(), uuid.MustParse(baja.ID), dto.ActualizarUsuarioRequest{
		Nombre: "Pedro", Rol: model.RolVendedor, Activo: &inactivo,
	})
	require.NoError(t, err)

	lista, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, activa.ID, lista[0].ID)

	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

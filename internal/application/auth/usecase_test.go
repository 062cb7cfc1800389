package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/auth"
	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/PuntoVenta-api/pkg/jwt"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

func newUseCase(t *testing.T) (*auth.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := auth.NewUseCase(store.Users(), auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: 60,
		Issuer:     "punto-venta-test",
	})
	return uc, store
}

func registerReq() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:    "maria@tienda.co.mz",
		Password: "secreta123",
		Name:     "María Macamo",
		Role:     "vendedor",
	}
}

func TestRegister(t *testing.T) {
	uc, _ := newUseCase(t)

	user, err := uc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "maria@tienda.co.mz", user.Email)
	assert.Equal(t, "vendedor", user.Role)
	assert.True(t, user.Active)
}

func TestRegister_RolPorDefectoEsVendedor(t *testing.T) {
	uc, _ := newUseCase(t)

	req := registerReq()
	req.Role = ""
	user, err := uc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "vendedor", user.Role)
}

func TestRegister_RolDesconocido(t *testing.T) {
	uc, _ := newUseCase(t)

	req := registerReq()
	req.Role = "superadmin"
	_, err := uc.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, registerReq())
	require.NoError(t, err)
	_, err = uc.Register(ctx, registerReq())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	registered, err := uc.Register(ctx, registerReq())
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "maria@tienda.co.mz", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.User.ID)

	// El token lleva identidad y rol.
	userID, name, role, err := pkgjwt.Parse(testJWTSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, "María Macamo", name)
	assert.Equal(t, "vendedor", role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, registerReq())
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "maria@tienda.co.mz", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.co.mz", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	registered, err := uc.Register(ctx, registerReq())
	require.NoError(t, err)

	user, err := store.Users().GetByID(registered.ID)
	require.NoError(t, err)
	user.Active = false
	require.NoError(t, store.Users().Update(user))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "maria@tienda.co.mz", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMe(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	registered, err := uc.Register(ctx, registerReq())
	require.NoError(t, err)

	me, err := uc.Me(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Email, me.Email)

	_, err = uc.Me(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

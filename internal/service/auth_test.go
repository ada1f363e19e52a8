package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aromero/farmagestor/internal/logger"
	"github.com/aromero/farmagestor/internal/repository"
	"github.com/aromero/farmagestor/internal/utils"
)

func newTestAuth(t *testing.T, repos *repository.Repositories) AuthService {
	t.Helper()
	return NewAuthService(repos.Usuarios, repos.Config, testAppConfig(), logger.Nop())
}

func TestAuth_LoginSuccess(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	s := newTestAuth(t, repos)

	user, token, err := s.Login(ctx, "romero30", "romero_30")
	require.NoError(t, err)

	assert.Equal(t, "Antonio Romero", user.Nombre)
	assert.Empty(t, user.Password, "session user never carries the password")
	assert.NotEmpty(t, token.SignedString)

	parsed, err := utils.ValidateAndParseJWTToken(token.SignedString, "test-sign-key", "farmagestor-test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed.UserID)

	current, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
	assert.Empty(t, current.Password)
}

func TestAuth_LoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	s := newTestAuth(t, repos)

	_, _, err := s.Login(ctx, "romero30", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "nobody", "romero_30")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuth_LoginRejectsInactiveUser(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	s := newTestAuth(t, repos)

	vendedor, err := repos.Usuarios.FindByUsername(ctx, "vendedor26")
	require.NoError(t, err)

	_, err = repos.Usuarios.SetActivo(ctx, vendedor.ID, false)
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "vendedor26", "vendedor_26")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestAuth_LogoutClearsSession(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	s := newTestAuth(t, repos)

	_, _, err := s.Login(ctx, "dianita26", "dianita_26")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))

	_, err = s.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.Logout(ctx), "logout with no session is a no-op")
}

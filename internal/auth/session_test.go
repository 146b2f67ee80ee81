package auth

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftdesk/internal/api"
	"liftdesk/internal/api/apitest"
)

func newService(t *testing.T) (*Service, *apitest.Server, string) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	path := filepath.Join(t.TempDir(), "session.json")
	client := api.New(api.Options{BaseURL: srv.BaseURL(), Logger: log})
	return NewService(client, NewStore(path), nil, log), srv, path
}

func TestLoginStoresSession(t *testing.T) {
	svc, srv, path := newService(t)

	sess, err := svc.Login(context.Background(), api.Credentials{Email: srv.Email, Password: srv.Password, Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, apitest.DefaultToken, sess.Token)
	assert.Equal(t, "admin", sess.Role())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	stored, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, sess.Token, stored.Token)
	assert.Equal(t, "admin@legendlift.test", stored.User.String("email"))
	assert.Equal(t, apitest.DefaultToken, svc.Token())
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	svc, srv, _ := newService(t)

	_, err := svc.Login(context.Background(), api.Credentials{Email: srv.Email, Password: "nope"})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))

	_, err = svc.Current()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, "", svc.Token())
}

func TestLogoutClearsSession(t *testing.T) {
	svc, srv, path := newService(t)
	_, err := svc.Login(context.Background(), api.Credentials{Email: srv.Email, Password: srv.Password})
	require.NoError(t, err)

	require.NoError(t, svc.Logout())
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	require.NoError(t, svc.Logout(), "logging out twice is fine")
}

func TestStoreRejectsEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":""}`), 0o600))
	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

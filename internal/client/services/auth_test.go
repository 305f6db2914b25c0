package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/krishisahayak/internal/client/client"
	"github.com/dmitrijs2005/krishisahayak/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var amit = models.User{ID: 1, Name: "Amit", Email: "a@x.com"}

func TestLogin_KeepsTokenInMemory(t *testing.T) {
	fc := &fakeClient{session: &models.Session{Token: "tok", User: amit}}
	a := NewAuthService(fc, "")

	u, err := a.Login(context.Background(), "a@x.com", []byte("pw1"))
	require.NoError(t, err)
	assert.Equal(t, amit, *u)
	assert.Equal(t, "tok", fc.token)
	assert.Equal(t, "pw1", fc.gotPassword)
}

func TestRegister_SavesTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "token")
	fc := &fakeClient{session: &models.Session{Token: "tok", User: amit}}
	a := NewAuthService(fc, path)

	_, err := a.Register(context.Background(), "Amit", "a@x.com", []byte("pw1"))
	require.NoError(t, err)
	assert.Equal(t, "Amit", fc.gotName)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", string(data))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestLogin_ErrorKeepsNoToken(t *testing.T) {
	fc := &fakeClient{sessionErr: &client.APIError{Status: 401, Message: "Incorrect password."}}
	a := NewAuthService(fc, "")

	_, err := a.Login(context.Background(), "a@x.com", []byte("x"))
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Empty(t, fc.token)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("no token file configured", func(t *testing.T) {
		_, err := NewAuthService(&fakeClient{}, "").Restore(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("file missing", func(t *testing.T) {
		_, err := NewAuthService(&fakeClient{}, filepath.Join(t.TempDir(), "none")).Restore(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("valid token", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("saved\n"), 0o600))
		fc := &fakeClient{profile: &amit}

		u, err := NewAuthService(fc, path).Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, amit, *u)
		assert.Equal(t, "saved", fc.profileTok)
		assert.Equal(t, "saved", fc.token)
	})

	t.Run("expired token is discarded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
		fc := &fakeClient{profileErr: &client.APIError{Status: 401, Message: "Invalid or expired token."}}

		_, err := NewAuthService(fc, path).Restore(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
		assert.Empty(t, fc.token)
		_, statErr := os.Stat(path)
		assert.True(t, errors.Is(statErr, os.ErrNotExist))
	})

	t.Run("server down keeps file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("tok"), 0o600))
		fc := &fakeClient{profileErr: client.ErrUnavailable}

		_, err := NewAuthService(fc, path).Restore(ctx)
		assert.ErrorIs(t, err, client.ErrUnavailable)
		assert.Empty(t, fc.token)
		assert.FileExists(t, path)
	})
}

func TestLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("tok"), 0o600))
	fc := &fakeClient{token: "tok"}
	a := NewAuthService(fc, path)

	require.NoError(t, a.Logout(context.Background()))
	assert.Empty(t, fc.token)
	assert.NoFileExists(t, path)

	// second logout is a no-op
	assert.NoError(t, a.Logout(context.Background()))
}

func TestProfile(t *testing.T) {
	fc := &fakeClient{token: "tok", profile: &amit}
	u, err := NewAuthService(fc, "").Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, amit, *u)
	assert.Equal(t, "tok", fc.profileTok)
}

func TestPing(t *testing.T) {
	fc := &fakeClient{}
	require.NoError(t, NewAuthService(fc, "").Ping(context.Background()))
	assert.True(t, fc.pinged)
}

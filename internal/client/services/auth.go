// Package services contains application services for the KrishiSahayak
// client. This file holds the session side: register, login, restoring a
// saved token and logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/krishisahayak/internal/client/client"
	"github.com/dmitrijs2005/krishisahayak/internal/client/models"
	"github.com/dmitrijs2005/krishisahayak/internal/filex"
)

// ErrNoSession is returned by Restore when there is no usable saved token.
var ErrNoSession = errors.New("no saved session")

// AuthService owns the session token for the CLI.
//
// Contract:
//   - Register / Login: call the API and keep the returned token for later calls.
//   - Restore: reuse a token saved by an earlier run, verified against /api/profile.
//   - Logout: drop the token locally; the server keeps no session state.
//   - Profile: ask the server who the current token belongs to.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, name, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Restore(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
}

type authService struct {
	client    client.Client
	tokenFile string
}

// NewAuthService returns an AuthService. With an empty tokenFile the token
// lives only in memory.
func NewAuthService(c client.Client, tokenFile string) AuthService {
	return &authService{client: c, tokenFile: tokenFile}
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) (*models.User, error) {
	s, err := a.client.Register(ctx, name, email, string(password))
	if err != nil {
		return nil, err
	}
	return a.keep(s)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	s, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}
	return a.keep(s)
}

func (a *authService) keep(s *models.Session) (*models.User, error) {
	a.client.SetToken(s.Token)
	if a.tokenFile != "" {
		path, err := filex.EnsureParentDir(a.tokenFile)
		if err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}
		if err := os.WriteFile(path, []byte(s.Token), 0o600); err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}
	}
	u := s.User
	return &u, nil
}

func (a *authService) Restore(ctx context.Context) (*models.User, error) {
	if a.tokenFile == "" {
		return nil, ErrNoSession
	}

	data, err := os.ReadFile(a.tokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return nil, ErrNoSession
	}

	a.client.SetToken(token)
	u, err := a.client.Profile(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = a.Logout(ctx)
			return nil, ErrNoSession
		}
		a.client.SetToken("")
		return nil, err
	}
	return u, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	if a.tokenFile == "" {
		return nil
	}
	if err := os.Remove(a.tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

func (a *authService) Profile(ctx context.Context) (*models.User, error) {
	return a.client.Profile(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

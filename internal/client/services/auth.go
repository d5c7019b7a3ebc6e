// Package services contains the client-side application services. They sit
// between the cobra commands and the API client, and own the local state:
// the session token and the cached PDF listing.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pdfnotes/internal/client/client"
	"github.com/dmitrijs2005/pdfnotes/internal/client/models"
	"github.com/dmitrijs2005/pdfnotes/internal/client/repositories"
	"github.com/dmitrijs2005/pdfnotes/internal/client/repositories/metadata"
)

// AuthService manages the session of the CLI user.
//
// Password slices are only read; the caller owns them and wipes them.
type AuthService interface {
	Signup(ctx context.Context, email string, password, confirmation []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	// Logout forgets the token and the cached listing.
	Logout(ctx context.Context) error
	// Restore loads a saved token into the API client and returns the email
	// it belongs to. It fails with client.ErrNotLoggedIn when there is no
	// session for the configured server.
	Restore(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
}

type authService struct {
	api    client.Client
	local  *repositories.Local
	server string
}

func NewAuthService(api client.Client, local *repositories.Local, server string) AuthService {
	return &authService{api: api, local: local, server: server}
}

func (a *authService) Signup(ctx context.Context, email string, password, confirmation []byte) (*models.User, error) {
	res, err := a.api.Signup(ctx, email, string(password), string(confirmation))
	if err != nil {
		return nil, err
	}
	if err := a.saveSession(ctx, res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	res, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}
	if err := a.saveSession(ctx, res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

// saveSession replaces whatever session was stored before, including the
// cached listing of a previous user.
func (a *authService) saveSession(ctx context.Context, res *models.Auth) error {
	if err := a.local.Reset(ctx); err != nil {
		return fmt.Errorf("session reset error: %w", err)
	}

	md := a.local.Metadata
	for k, v := range map[string]string{
		metadata.KeyToken:  res.Token,
		metadata.KeyEmail:  res.User.Email,
		metadata.KeyServer: a.server,
	} {
		if err := md.Set(ctx, k, v); err != nil {
			return fmt.Errorf("session saving error: %w", err)
		}
	}

	a.api.SetToken(res.Token)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.api.SetToken("")
	return a.local.Reset(ctx)
}

func (a *authService) Restore(ctx context.Context) (string, error) {
	md := a.local.Metadata

	token, err := md.Get(ctx, metadata.KeyToken)
	if err != nil {
		return "", err
	}
	server, err := md.Get(ctx, metadata.KeyServer)
	if err != nil {
		return "", err
	}
	if token == "" || server != a.server {
		return "", client.ErrNotLoggedIn
	}

	email, err := md.Get(ctx, metadata.KeyEmail)
	if err != nil {
		return "", err
	}

	a.api.SetToken(token)
	return email, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}

package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shiftline-hq/shiftline-client/internal/domain"
	"github.com/shiftline-hq/shiftline-client/pkg/api"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for a session and stores it.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (Session, error) {
	if err := c.validatePayload(creds); err != nil {
		return Session{}, err
	}
	path, err := literal(api.KeyAuthLogin, c.cfg.Endpoints().Auth.Login)
	if err != nil {
		return Session{}, err
	}
	return c.startSession(ctx, path, creds)
}

// Register creates an account and stores the session it returns.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (Session, error) {
	if err := c.validatePayload(reg); err != nil {
		return Session{}, err
	}
	path, err := literal(api.KeyAuthRegister, c.cfg.Endpoints().Auth.Register)
	if err != nil {
		return Session{}, err
	}
	return c.startSession(ctx, path, reg)
}

// Refresh trades the stored refresh token for a new session.
func (c *Client) Refresh(ctx context.Context) (Session, error) {
	current, ok, err := c.sessions.LoadSession()
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if !ok || current.RefreshToken == "" {
		return Session{}, ErrNoSession
	}
	path, err := literal(api.KeyAuthRefresh, c.cfg.Endpoints().Auth.Refresh)
	if err != nil {
		return Session{}, err
	}

	next, err := c.startSession(ctx, path, refreshRequest{RefreshToken: current.RefreshToken})
	if err != nil {
		return Session{}, err
	}
	if next.User == nil && current.User != nil {
		next.User = current.User
		if err := c.sessions.SaveSession(next); err != nil {
			return Session{}, fmt.Errorf("save session: %w", err)
		}
	}
	return next, nil
}

// Logout ends the session server-side and forgets it locally. The local copy
// is dropped even when the server rejects the call.
func (c *Client) Logout(ctx context.Context) error {
	path, err := literal(api.KeyAuthLogout, c.cfg.Endpoints().Auth.Logout)
	if err != nil {
		return err
	}
	_, callErr := call[domain.Ack](ctx, c, http.MethodPost, path, nil)
	if err := c.sessions.ClearSession(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return callErr
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	path, err := literal(api.KeyAuthMe, c.cfg.Endpoints().Auth.Me)
	if err != nil {
		return domain.User{}, err
	}
	return call[domain.User](ctx, c, http.MethodGet, path, nil)
}

// CurrentSession returns the stored session, if any.
func (c *Client) CurrentSession() (Session, bool, error) {
	return c.sessions.LoadSession()
}

func (c *Client) startSession(ctx context.Context, path string, body any) (Session, error) {
	session, err := call[Session](ctx, c, http.MethodPost, path, body)
	if err != nil {
		return Session{}, err
	}
	if session.AccessToken == "" {
		return Session{}, fmt.Errorf("%s: response carried no access token", path)
	}
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = tokenExpiry(session.AccessToken)
	}
	if err := c.sessions.SaveSession(session); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

package gateway

import (
	"context"
	"net/http"

	"github.com/jovincart/storefront/apperrors"
)

// Backend error strings for auth failures. These are part of the wire
// contract: the login page keys its alerts off them.
const (
	msgUserNotExists     = "User not exists!"
	msgIncorrectPassword = "Incorrect password!"
	msgEmailNotExists    = "Email not exists!"
)

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	statusEnvelope
	TokenPair
}

// Login authenticates with email and password. Backend rejections map to
// ErrUserNotFound and ErrIncorrectPassword; anything else is generic.
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return TokenPair{}, err
	}
	if !resp.Success {
		switch resp.Error {
		case msgUserNotExists:
			return TokenPair{}, apperrors.ErrUserNotFound
		case msgIncorrectPassword:
			return TokenPair{}, apperrors.ErrIncorrectPassword
		default:
			return TokenPair{}, apperrors.ErrUnauthorized
		}
	}
	return resp.TokenPair, nil
}

// GoogleLogin exchanges a federated identity (the verified email from the
// identity provider) for a token pair. ErrAccountNotRegistered tells the
// caller to route to the set-password flow; it is not a hard failure.
func (c *Client) GoogleLogin(ctx context.Context, email string) (TokenPair, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/google-login", map[string]string{"email": email}, &resp)
	if err != nil {
		return TokenPair{}, err
	}
	if !resp.Success {
		return TokenPair{}, apperrors.ErrAccountNotRegistered
	}
	return resp.TokenPair, nil
}

// Refresh exchanges the refresh credential for a fresh access credential.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var resp struct {
		statusEnvelope
		AccessToken string `json:"accessToken"`
	}
	err := c.do(ctx, http.MethodPost, "/token", map[string]string{"refreshToken": refreshToken}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", apperrors.ErrUnauthorized
	}
	return resp.AccessToken, nil
}

// CreateUser registers a new account. Also the completion step of the
// federated set-password flow.
func (c *Client) CreateUser(ctx context.Context, email, password string) error {
	var resp statusEnvelope
	err := c.do(ctx, http.MethodPost, "/create-user", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return apperrors.ErrRemoteRejected
	}
	return nil
}

// UpdateEmail changes the account email.
func (c *Client) UpdateEmail(ctx context.Context, email, newEmail string) error {
	return c.do(ctx, http.MethodPut, "/update-email", map[string]string{
		"email":    email,
		"newEmail": newEmail,
	}, nil)
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, email, newPassword string) error {
	return c.do(ctx, http.MethodPut, "/change-password", map[string]string{
		"email":    email,
		"password": newPassword,
	}, nil)
}

package api

import (
	"context"

	"storefront/internal/domain"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, cred Credentials) (domain.AuthResult, error) {
	var out domain.AuthResult
	return out, c.post(ctx, "/api/auth/login", "", cred, &out)
}

func (c *Client) Register(ctx context.Context, r Registration) (domain.AuthResult, error) {
	var out domain.AuthResult
	return out, c.post(ctx, "/api/auth/register", "", r, &out)
}

func (c *Client) AdminLogin(ctx context.Context, cred Credentials) (domain.AuthResult, error) {
	var out domain.AuthResult
	return out, c.post(ctx, "/api/admin/login", "", cred, &out)
}

func (c *Client) Me(ctx context.Context, token string) (domain.User, error) {
	var out domain.User
	return out, c.get(ctx, "/api/user/profile", token, &out)
}

type ProfileUpdate struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, token string, u ProfileUpdate) (domain.User, error) {
	var out domain.User
	return out, c.put(ctx, "/api/user/profile", token, u, &out)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, "/api/auth/forgot-password", "", map[string]string{"email": email}, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (domain.ResetTicket, error) {
	var out domain.ResetTicket
	return out, c.post(ctx, "/api/auth/verify-otp", "", map[string]string{"email": email, "otp": otp}, &out)
}

func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) error {
	return c.post(ctx, "/api/auth/reset-password", "", map[string]string{
		"reset_token": resetToken,
		"password":    password,
	}, nil)
}

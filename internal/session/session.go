package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/domain"
)

// Scope separates the shopper login from the admin console login.
type Scope string

const (
	ScopeUser  Scope = "user"
	ScopeAdmin Scope = "admin"
)

// LoginPath is where a scope sends unauthenticated visitors.
func (s Scope) LoginPath() string {
	if s == ScopeAdmin {
		return "/admin/login"
	}
	return "/login"
}

// Principal is a bearer token plus the profile snapshot returned at login.
type Principal struct {
	Token   string      `json:"token"`
	Profile domain.User `json:"profile"`
}

// Expired reads the token's exp claim without verifying the signature;
// the backend stays the judge, this only avoids a round trip that would
// certainly 401. Opaque (non-JWT) tokens never expire client-side.
func (p *Principal) Expired(now time.Time) bool {
	if p == nil || p.Token == "" {
		return true
	}
	tok, _, err := jwt.NewParser().ParseUnverified(p.Token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// Reset steps of the forgot-password flow.
const (
	ResetRequest = "request"
	ResetVerify  = "verify"
	ResetNew     = "reset"
)

type ResetFlow struct {
	Step       string `json:"step"`
	Email      string `json:"email"`
	ResetToken string `json:"reset_token,omitempty"`
}

// Session is the per-browser application context.
type Session struct {
	ID        string     `json:"id"`
	User      *Principal `json:"user,omitempty"`
	Admin     *Principal `json:"admin,omitempty"`
	Reset     *ResetFlow `json:"reset,omitempty"`
	Flash     string     `json:"flash,omitempty"`
	Coupon    string     `json:"coupon,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`

	dirty    bool
	dropped  []Scope
	replaces string
}

func (s *Session) Principal(scope Scope) *Principal {
	if scope == ScopeAdmin {
		return s.Admin
	}
	return s.User
}

func (s *Session) SetPrincipal(scope Scope, p *Principal) {
	if scope == ScopeAdmin {
		s.Admin = p
	} else {
		s.User = p
	}
	s.dirty = true
}

// Clear drops the scope's credentials and reports whether any were held.
func (s *Session) Clear(scope Scope) bool {
	had := s.Principal(scope) != nil
	s.SetPrincipal(scope, nil)
	return had
}

func (s *Session) LoggedIn(scope Scope) bool {
	return s.Principal(scope) != nil
}

// Token returns the bearer token for scope, or "" when logged out.
func (s *Session) Token(scope Scope) string {
	if p := s.Principal(scope); p != nil {
		return p.Token
	}
	return ""
}

func (s *Session) SetReset(r *ResetFlow) {
	s.Reset = r
	s.dirty = true
}

// SetCoupon remembers the coupon code applied at checkout; "" removes it.
func (s *Session) SetCoupon(code string) {
	s.Coupon = code
	s.dirty = true
}

// SetFlash stores a one-shot message shown on the next page.
func (s *Session) SetFlash(msg string) {
	s.Flash = msg
	s.dirty = true
}

// TakeFlash returns and clears the flash message.
func (s *Session) TakeFlash() string {
	msg := s.Flash
	if msg != "" {
		s.Flash = ""
		s.dirty = true
	}
	return msg
}

func (s *Session) Dirty() bool { return s.dirty }
func (s *Session) MarkDirty()  { s.dirty = true }

// Dropped lists the scopes whose expired credentials were discarded on load.
func (s *Session) Dropped() []Scope { return s.dropped }

// Replaces is the ID of the unknown or expired session this one stands in
// for, or "".
func (s *Session) Replaces() string { return s.replaces }

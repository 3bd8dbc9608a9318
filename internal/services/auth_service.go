package services

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/session"
	"storefront/internal/validate"
)

var (
	ErrBadCreds  = errors.New("invalid email or password")
	ErrNotAdmin  = errors.New("this account does not have admin access")
	ErrBlocked   = errors.New("this account has been blocked")
	ErrResetStep = errors.New("please complete the previous step first")
)

type AuthService struct {
	API *api.Client
	Bus *events.Bus
	// Sessions, when set, gives a session a fresh ID on every login.
	Sessions *session.Manager
}

func NewAuthService(c *api.Client, bus *events.Bus) *AuthService {
	return &AuthService{API: c, Bus: bus}
}

func credentials(email, password string) (api.Credentials, error) {
	fe := validate.Errors{}
	email, ok := validate.Email(email)
	if !ok {
		fe.Add("email", "Enter a valid email address")
	}
	if password == "" {
		fe.Add("password", "Enter your password")
	}
	return api.Credentials{Email: email, Password: password}, formErr(fe)
}

// loginErr maps a failed login call. A 401 here means wrong credentials,
// not an expired session.
func loginErr(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return ErrBadCreds
	}
	return err
}

func (s *AuthService) Login(ctx context.Context, sess *session.Session, email, password string) (domain.User, error) {
	cred, err := credentials(email, password)
	if err != nil {
		return domain.User{}, err
	}
	res, err := s.API.Login(ctx, cred)
	if err != nil {
		return domain.User{}, loginErr(err)
	}
	return s.begin(ctx, sess, res)
}

type Registration struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Confirm  string
}

func (s *AuthService) Register(ctx context.Context, sess *session.Session, r Registration) (domain.User, error) {
	fe := validate.Errors{}
	name, ok := validate.Name(r.Name)
	if !ok {
		fe.Add("name", "Enter your name")
	}
	email, ok := validate.Email(r.Email)
	if !ok {
		fe.Add("email", "Enter a valid email address")
	}
	phone := ""
	if r.Phone != "" {
		if phone, ok = validate.Phone(r.Phone); !ok {
			fe.Add("phone", "Enter a 10 digit mobile number")
		}
	}
	if !validate.Password(r.Password) {
		fe.Add("password", "Use 8 or more characters with upper and lower case, a digit and a symbol")
	}
	if r.Password != r.Confirm {
		fe.Add("confirm", "Passwords do not match")
	}
	if err := formErr(fe); err != nil {
		return domain.User{}, err
	}
	res, err := s.API.Register(ctx, api.Registration{Name: name, Email: email, Phone: phone, Password: r.Password})
	if err != nil {
		return domain.User{}, err
	}
	return s.begin(ctx, sess, res)
}

func (s *AuthService) begin(ctx context.Context, sess *session.Session, res domain.AuthResult) (domain.User, error) {
	if res.User.Blocked {
		return domain.User{}, ErrBlocked
	}
	if err := s.rotate(ctx, sess); err != nil {
		return domain.User{}, err
	}
	sess.SetPrincipal(session.ScopeUser, &session.Principal{Token: res.Token, Profile: res.User})
	publish(ctx, s.Bus, events.CartChanged, sess)
	publish(ctx, s.Bus, events.WishlistChanged, sess)
	return res.User, nil
}

func (s *AuthService) AdminLogin(ctx context.Context, sess *session.Session, email, password string) (domain.User, error) {
	cred, err := credentials(email, password)
	if err != nil {
		return domain.User{}, err
	}
	res, err := s.API.AdminLogin(ctx, cred)
	var ae *api.Error
	if errors.As(err, &ae) && ae.Status == http.StatusForbidden {
		return domain.User{}, ErrNotAdmin
	}
	if err != nil {
		return domain.User{}, loginErr(err)
	}
	if res.User.Role != domain.RoleAdmin {
		return domain.User{}, ErrNotAdmin
	}
	if err := s.rotate(ctx, sess); err != nil {
		return domain.User{}, err
	}
	sess.SetPrincipal(session.ScopeAdmin, &session.Principal{Token: res.Token, Profile: res.User})
	return res.User, nil
}

// rotate retires the pre-login session ID so one planted before login is
// worthless after it.
func (s *AuthService) rotate(ctx context.Context, sess *session.Session) error {
	if s.Sessions == nil {
		return nil
	}
	old := sess.ID
	if err := s.Sessions.Rotate(ctx, sess); err != nil {
		return err
	}
	if s.Bus != nil {
		s.Bus.Publish(ctx, events.Notification{Topic: events.SessionEnded, SessionID: old})
	}
	return nil
}

// End clears scope's credentials. Ending the shopper scope also tells
// listeners the per-session state is gone. Reports whether anything was held.
func (s *AuthService) End(ctx context.Context, sess *session.Session, scope session.Scope) bool {
	had := sess.Clear(scope)
	if scope == session.ScopeUser {
		sess.SetCoupon("")
		if s.Bus != nil {
			s.Bus.Publish(ctx, events.Notification{Topic: events.SessionEnded, SessionID: sess.ID})
		}
	}
	return had
}

// ResetStep is the password reset step the session is on.
func ResetStep(sess *session.Session) string {
	if sess.Reset == nil {
		return session.ResetRequest
	}
	return sess.Reset.Step
}

func (s *AuthService) StartReset(ctx context.Context, sess *session.Session, email string) error {
	email, ok := validate.Email(email)
	if !ok {
		return &FormError{Fields: validate.Errors{"email": "Enter a valid email address"}}
	}
	if err := s.API.ForgotPassword(ctx, email); err != nil {
		return err
	}
	sess.SetReset(&session.ResetFlow{Step: session.ResetVerify, Email: email})
	return nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, sess *session.Session, otp string) error {
	if ResetStep(sess) != session.ResetVerify {
		return ErrResetStep
	}
	otp, ok := validate.OTP(otp)
	if !ok {
		return &FormError{Fields: validate.Errors{"otp": "Enter the code from your email"}}
	}
	ticket, err := s.API.VerifyOTP(ctx, sess.Reset.Email, otp)
	if err != nil {
		return err
	}
	sess.SetReset(&session.ResetFlow{Step: session.ResetNew, Email: sess.Reset.Email, ResetToken: ticket.ResetToken})
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, sess *session.Session, password, confirm string) error {
	if ResetStep(sess) != session.ResetNew {
		return ErrResetStep
	}
	fe := validate.Errors{}
	if !validate.Password(password) {
		fe.Add("password", "Use 8 or more characters with upper and lower case, a digit and a symbol")
	}
	if password != confirm {
		fe.Add("confirm", "Passwords do not match")
	}
	if err := formErr(fe); err != nil {
		return err
	}
	if err := s.API.ResetPassword(ctx, sess.Reset.ResetToken, password); err != nil {
		return err
	}
	sess.SetReset(nil)
	return nil
}

// CancelReset abandons the flow and returns to the first step.
func (s *AuthService) CancelReset(sess *session.Session) {
	sess.SetReset(nil)
}

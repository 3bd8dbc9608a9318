package services

import (
	"context"

	"storefront/internal/api"
	"storefront/internal/domain"
	"storefront/internal/session"
	"storefront/internal/validate"
)

type AccountService struct {
	API *api.Client
}

func NewAccountService(c *api.Client) *AccountService { return &AccountService{API: c} }

// Profile re-reads the user from the backend and refreshes the session's
// snapshot.
func (s *AccountService) Profile(ctx context.Context, sess *session.Session) (domain.User, error) {
	tok, err := userToken(sess)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.API.Me(ctx, tok)
	if err != nil {
		return domain.User{}, err
	}
	sess.SetPrincipal(session.ScopeUser, &session.Principal{Token: tok, Profile: u})
	return u, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, sess *session.Session, name, phone string) (domain.User, error) {
	tok, err := userToken(sess)
	if err != nil {
		return domain.User{}, err
	}
	fe := validate.Errors{}
	name, ok := validate.Name(name)
	if !ok {
		fe.Add("name", "Enter your name")
	}
	if phone != "" {
		if phone, ok = validate.Phone(phone); !ok {
			fe.Add("phone", "Enter a 10 digit mobile number")
		}
	}
	if err := formErr(fe); err != nil {
		return domain.User{}, err
	}
	u, err := s.API.UpdateProfile(ctx, tok, api.ProfileUpdate{Name: name, Phone: phone})
	if err != nil {
		return domain.User{}, err
	}
	sess.SetPrincipal(session.ScopeUser, &session.Principal{Token: tok, Profile: u})
	return u, nil
}

func (s *AccountService) Addresses(ctx context.Context, sess *session.Session) ([]domain.Address, error) {
	tok, err := userToken(sess)
	if err != nil {
		return nil, err
	}
	return s.API.Addresses(ctx, tok)
}

// CheckAddress validates and normalises an address form.
func CheckAddress(a domain.NewAddress) (domain.NewAddress, error) {
	fe := validate.Errors{}
	var ok bool
	if a.Name, ok = validate.Name(a.Name); !ok {
		fe.Add("name", "Enter the recipient's name")
	}
	if a.Phone, ok = validate.Phone(a.Phone); !ok {
		fe.Add("phone", "Enter a 10 digit mobile number")
	}
	if a.Line1, ok = validate.Text(a.Line1, 120); !ok {
		fe.Add("line1", "Enter the street address")
	}
	if a.Line2 != "" {
		if a.Line2, ok = validate.Text(a.Line2, 120); !ok {
			fe.Add("line2", "Address line 2 is too long")
		}
	}
	if a.City, ok = validate.Text(a.City, 60); !ok {
		fe.Add("city", "Enter the city")
	}
	if a.State != "" {
		if a.State, ok = validate.Text(a.State, 60); !ok {
			fe.Add("state", "State is too long")
		}
	}
	if a.Pincode, ok = validate.Pincode(a.Pincode); !ok {
		fe.Add("pincode", "Enter a 6 digit pincode")
	}
	return a, formErr(fe)
}

func (s *AccountService) AddAddress(ctx context.Context, sess *session.Session, a domain.NewAddress) (domain.Address, error) {
	tok, err := userToken(sess)
	if err != nil {
		return domain.Address{}, err
	}
	a, err = CheckAddress(a)
	if err != nil {
		return domain.Address{}, err
	}
	return s.API.CreateAddress(ctx, tok, a)
}

func (s *AccountService) DeleteAddress(ctx context.Context, sess *session.Session, id string) error {
	tok, err := userToken(sess)
	if err != nil {
		return err
	}
	return s.API.DeleteAddress(ctx, tok, id)
}

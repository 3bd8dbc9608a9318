package apitest

import (
	"encoding/json"
	"net/http"
	"strings"

	"storefront/internal/domain"
)

func (b *Backend) authRoutes(mux *http.ServeMux) {
	login := func(admin bool) http.HandlerFunc {
		return b.locked(func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)
			for _, u := range b.Users {
				if strings.EqualFold(u.Email, in.Email) && in.Password == Password {
					if admin && u.Role != domain.RoleAdmin {
						fail(w, http.StatusForbidden, "Not an admin")
						return
					}
					writeJSON(w, http.StatusOK, domain.AuthResult{Token: TokenFor(u.Email), User: u})
					return
				}
			}
			fail(w, http.StatusUnauthorized, "Invalid credentials")
		})
	}
	mux.HandleFunc("POST /api/auth/login", login(false))
	mux.HandleFunc("POST /api/admin/login", login(true))

	mux.HandleFunc("POST /api/auth/register", b.locked(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Phone    string `json:"phone"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		for _, u := range b.Users {
			if strings.EqualFold(u.Email, in.Email) {
				fail(w, http.StatusConflict, "Email already registered")
				return
			}
		}
		u := domain.User{ID: b.id("u"), Name: in.Name, Email: in.Email, Phone: in.Phone, Role: domain.RoleUser}
		b.Users = append(b.Users, u)
		writeJSON(w, http.StatusCreated, domain.AuthResult{Token: TokenFor(u.Email), User: u})
	}))

	mux.HandleFunc("GET /api/user/profile", b.authed(func(w http.ResponseWriter, r *http.Request, u domain.User, _ string) {
		writeJSON(w, http.StatusOK, u)
	}))
	mux.HandleFunc("PUT /api/user/profile", b.authed(func(w http.ResponseWriter, r *http.Request, u domain.User, _ string) {
		var in struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		for i := range b.Users {
			if b.Users[i].ID == u.ID {
				b.Users[i].Name, b.Users[i].Phone = in.Name, in.Phone
				writeJSON(w, http.StatusOK, b.Users[i])
				return
			}
		}
	}))

	mux.HandleFunc("POST /api/auth/forgot-password", b.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent"})
	}))
	mux.HandleFunc("POST /api/auth/verify-otp", b.locked(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			OTP string `json:"otp"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.OTP != OTP {
			fail(w, http.StatusBadRequest, "Invalid or expired OTP")
			return
		}
		writeJSON(w, http.StatusOK, domain.ResetTicket{ResetToken: ResetToken})
	}))
	mux.HandleFunc("POST /api/auth/reset-password", b.locked(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ResetToken string `json:"reset_token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.ResetToken != ResetToken {
			fail(w, http.StatusBadRequest, "Reset link expired")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
	}))
}

package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID      ID     `json:"id" validate:"required"`
	Name    string `json:"name"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone"`
	Role    string `json:"role"`
	Blocked bool   `json:"is_blocked"`
}

// AuthResult is what login endpoints return.
type AuthResult struct {
	Token string `json:"token" validate:"required"`
	User  User   `json:"user" validate:"required"`
}

// ResetTicket is returned once an OTP has been verified.
type ResetTicket struct {
	ResetToken string `json:"reset_token" validate:"required"`
}

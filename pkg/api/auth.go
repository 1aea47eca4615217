package api

// User is the public view of an account. It never carries the password hash.
type User struct {
	Id           string `json:"id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	CurrencyCode string `json:"currency_code,omitempty"`
	TimeZone     string `json:"time_zone,omitempty"`
	CreatedAt    int64  `json:"created_at,omitempty"`
}

type RegisterRequest struct {
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	Password     string `json:"password"`
	CurrencyCode string `json:"currency_code,omitempty"`
	TimeZone     string `json:"time_zone,omitempty"`
}

type RegisterResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type SearchUsersRequest struct {
	Query string `json:"query"`
}

type SearchUsersResponse struct {
	Users []*User `json:"users"`
}

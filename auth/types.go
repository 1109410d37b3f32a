package auth

import "time"

// UserType distinguishes the two account roles. The zero value means the
// user has not picked a role during onboarding yet.
type UserType string

const (
	UserTypeCompany   UserType = "COMPANY"
	UserTypeJobSeeker UserType = "JOB_SEEKER"
)

// User is the backend account record. It is immutable on the client and
// refreshed on demand.
type User struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	UserType            UserType  `json:"user_type,omitempty"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at,omitzero"`
	Image               string    `json:"image,omitempty"`
}

// Response is what the backend returns from login, signup and the OAuth
// exchange. The refresh token usually arrives in an httpOnly cookie
// instead of the body.
type Response struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         User   `json:"user"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupData is the registration payload. ConfirmPassword is filled from
// Password by Signup when left empty; the backend validates the pair.
type SignupData struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
}

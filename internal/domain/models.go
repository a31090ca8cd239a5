package domain

import "time"

// Domain contains the resources exchanged with the workforce API.

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Credentials are posted to the login route.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Registration is posted to the register route.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

// Session is the token pair issued on login/register/refresh.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user,omitempty"`
}

// Valid reports whether the session can authorize a request at now.
func (s Session) Valid(now time.Time) bool {
	if s.AccessToken == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Read reports whether the notification has been acknowledged.
func (n Notification) Read() bool { return n.ReadAt != nil }

type Schedule struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Title      string    `json:"title"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Location   string    `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// ScheduleInput is the body for creating or updating a schedule entry.
type ScheduleInput struct {
	EmployeeID string    `json:"employee_id" validate:"required"`
	Title      string    `json:"title" validate:"required,max=200"`
	StartsAt   time.Time `json:"starts_at" validate:"required"`
	EndsAt     time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Location   string    `json:"location,omitempty" validate:"max=200"`
	Notes      string    `json:"notes,omitempty" validate:"max=2000"`
}

// Ack is returned by routes that only confirm an action.
type Ack struct {
	Updated int `json:"updated,omitempty"`
}

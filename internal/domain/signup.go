package domain

import (
	"time"
)

type Signup struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(120)" json:"name"`
	Business  string    `gorm:"type:varchar(160)" json:"business"`
	Email     string    `gorm:"type:varchar(254)" json:"email"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// SignupRequest is the payload posted by the waitlist form.
// SignupTime is the unix time in milliseconds at which the form was rendered.
type SignupRequest struct {
	Name       string     `json:"name"`
	Business   string     `json:"business"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	SignupTime UnixMillis `json:"signupTime"`
	Website    string     `json:"website"`
}

type SignupResponse struct {
	Success bool `json:"success"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Sent  *int   `json:"sent,omitempty"`
}

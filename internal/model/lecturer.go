package model

import "time"

// Lecturer represents a lecturer who marks attendance.
type Lecturer struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateLecturerRequest is the payload for creating a lecturer account.
// Name defaults to the username when omitted.
type CreateLecturerRequest struct {
	Name     string `json:"name" form:"name" binding:"omitempty,min=2,max=100"`
	Username string `json:"username" form:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=128"`
}

// UpdateLecturerRequest is the payload for updating a lecturer.
type UpdateLecturerRequest struct {
	Name     string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Username string `json:"username" form:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" form:"password" binding:"omitempty,min=6,max=128"`
}

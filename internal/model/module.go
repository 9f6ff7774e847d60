package model

import "time"

// Module is a taught unit belonging to a qualification.
type Module struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	QualificationID   int       `json:"qualification_id"`
	QualificationName string    `json:"qualification_name,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ModuleRequest is the payload for creating or updating a module.
type ModuleRequest struct {
	Name            string `json:"name" form:"name" binding:"required,min=2,max=100"`
	QualificationID int    `json:"qualification_id" form:"qualification_id" binding:"required,min=1"`
}

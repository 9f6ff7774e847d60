package model

import "time"

// Student represents an enrolled student. FaceEncoding holds the binary
// 128-dimensional face descriptor computed at enrollment.
type Student struct {
	ID                int       `json:"id"`
	StudentNumber     string    `json:"student_id"`
	Name              string    `json:"name"`
	Username          string    `json:"username"`
	FaceEncoding      []byte    `json:"-"`
	PasswordHash      string    `json:"-"`
	QualificationID   int       `json:"qualification_id"`
	QualificationName string    `json:"qualification_name,omitempty"`
	PhotoPath         string    `json:"photo_path,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FaceEncodingRow is the minimal projection used to build the face index.
type FaceEncodingRow struct {
	StudentNumber string
	Encoding      []byte
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	QualificationID *int
	Search          string
}

// EnrollStudentRequest is the multipart form for enrolling a student.
// The photo itself is read from the "image" file field.
type EnrollStudentRequest struct {
	StudentNumber   string `json:"student_id" form:"student_id" binding:"required,min=1,max=20,alphanum"`
	Username        string `json:"student_username" form:"student_username" binding:"required,email,max=120"`
	Password        string `json:"student_password" form:"student_password" binding:"required,min=6,max=128"`
	QualificationID int    `json:"qualification_id" form:"qualification_id" binding:"required,min=1"`
	Name            string `json:"name" form:"name" binding:"omitempty,min=2,max=100"`
}

// UpdateStudentRequest is the form for updating a student. A new photo may be
// supplied in the "image" file field; the face encoding is recomputed from it.
type UpdateStudentRequest struct {
	Name            string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Username        string `json:"student_username" form:"student_username" binding:"omitempty,email,max=120"`
	QualificationID int    `json:"qualification_id" form:"qualification_id" binding:"omitempty,min=1"`
	Password        string `json:"student_password" form:"student_password" binding:"omitempty,min=6,max=128"`
}

// StudentDashboard is what a logged-in student sees about themselves.
type StudentDashboard struct {
	Student Student            `json:"student"`
	Records []AttendanceRecord `json:"records"`
	Summary AttendanceSummary  `json:"summary"`
}

// FaceIndexStats reports the state of the in-memory face index.
type FaceIndexStats struct {
	Count              int       `json:"count"`
	LoadedAt           time.Time `json:"loaded_at"`
	MatchTolerance     float64   `json:"match_tolerance"`
	DuplicateTolerance float64   `json:"duplicate_tolerance"`
}

package model

import "time"

// Register is a saved snapshot of an attendance session.
type Register struct {
	ID             int       `json:"id"`
	ModuleName     string    `json:"module_name"`
	LecturerName   string    `json:"lecturer_name"`
	RecordedAt     time.Time `json:"date_time"`
	StudentNumbers []string  `json:"student_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

// SaveRegisterRequest is the form used both to save and to export a register.
// AttendanceTime uses AttendanceTimeLayout; StudentIDs is comma separated.
type SaveRegisterRequest struct {
	ModuleName     string `json:"module_name" form:"module_name" binding:"max=100"`
	LecturerName   string `json:"lecturer_name" form:"lecturer_name" binding:"max=100"`
	AttendanceTime string `json:"attendance_time" form:"attendance_time"`
	StudentIDs     string `json:"student_ids" form:"student_ids"`
}

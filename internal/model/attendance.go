package model

import "time"

// AttendanceStatus records whether a student was seen in a session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
)

// AttendanceTimeLayout is the display format of attendance timestamps.
const AttendanceTimeLayout = "2006-01-02 15:04:05"

// AttendanceRecord is one student's attendance in one session.
type AttendanceRecord struct {
	ID                int              `json:"id"`
	StudentID         int              `json:"-"`
	StudentNumber     string           `json:"student_id"`
	StudentName       string           `json:"student_name,omitempty"`
	ModuleID          int              `json:"module_id"`
	ModuleName        string           `json:"module_name,omitempty"`
	QualificationID   int              `json:"qualification_id"`
	QualificationName string           `json:"qualification_name,omitempty"`
	RecordedAt        time.Time        `json:"date_time"`
	Status            AttendanceStatus `json:"status"`
	Marks             int              `json:"marks"`
	CreatedAt         time.Time        `json:"created_at"`
}

// AttendanceFilter narrows attendance record listings.
type AttendanceFilter struct {
	StudentID       *int
	ModuleID        *int
	QualificationID *int
	Status          AttendanceStatus
	From            *time.Time
	To              *time.Time
}

// MarkRegisterRequest is the multipart form a lecturer submits to mark a register.
// The photo comes either from the "image" file field or the camera_image data URL;
// marks are read from marks_<student_id> fields.
type MarkRegisterRequest struct {
	QualificationID int    `json:"qualification_id" form:"qualification_id" binding:"required,min=1"`
	ModuleID        int    `json:"module_id" form:"module_id" binding:"required,min=1"`
	CameraImage     string `json:"camera_image" form:"camera_image"`
}

// AwardMarksRequest awards the same marks to every listed student.
type AwardMarksRequest struct {
	QualificationID int    `json:"qualification_id" form:"qualification_id" binding:"required,min=1"`
	ModuleID        int    `json:"module_id" form:"module_id" binding:"required,min=1"`
	StudentIDs      string `json:"student_ids" form:"student_ids"`
	Marks           int    `json:"marks" form:"marks" binding:"min=0,max=1000"`
}

// LiveAttendanceRequest is the JSON body of a single live camera capture.
type LiveAttendanceRequest struct {
	CameraImage     string `json:"camera_image" binding:"required"`
	QualificationID int    `json:"qualification_id" binding:"required,min=1"`
	ModuleID        int    `json:"module_id" binding:"required,min=1"`
}

// IdentifyResult reports which enrolled students appear in a photo.
type IdentifyResult struct {
	FacesDetected  int       `json:"faces_detected"`
	NoFaces        bool      `json:"no_faces"`
	NoStudents     bool      `json:"no_students"`
	StudentNumbers []string  `json:"student_ids"`
	Students       []Student `json:"students"`
}

// AttendanceSession summarises a marked register.
type AttendanceSession struct {
	Module         Module        `json:"module"`
	Qualification  Qualification `json:"qualification"`
	LecturerName   string        `json:"lecturer_name"`
	RecordedAt     time.Time     `json:"-"`
	AttendanceTime string        `json:"attendance_time"`
	FacesDetected  int           `json:"faces_detected"`
	Present        []Student     `json:"students"`
	PresentCount   int           `json:"present_count"`
	AbsentCount    int           `json:"absent_count"`
}

// StudentIDs returns the student numbers of the present students.
func (s *AttendanceSession) StudentIDs() []string {
	ids := make([]string, 0, len(s.Present))
	for _, st := range s.Present {
		ids = append(ids, st.StudentNumber)
	}
	return ids
}

// AttendanceSummary totals a student's records.
type AttendanceSummary struct {
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	TotalMarks int `json:"total_marks"`
}

// LiveFrameResult is the outcome of one frame of a live capture session.
type LiveFrameResult struct {
	FacesDetected  int      `json:"faces_detected"`
	Matched        []string `json:"matched"`
	SessionMatched []string `json:"session_matched"`
}

package model

// Role identifies which kind of account a session belongs to.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLecturer Role = "lecturer"
	RoleStudent  Role = "student"
)

// LoginRequest is the payload for the shared login endpoint.
// Admins, lecturers and students are looked up in that order.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=120"`
	Password string `json:"password" form:"password" binding:"required,max=128"`
}

// StudentLoginRequest is the payload for the student-only login endpoint.
type StudentLoginRequest struct {
	Username string `json:"student_username" form:"student_username" binding:"required,max=120"`
	Password string `json:"student_password" form:"student_password" binding:"required,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token         string `json:"token"`
	Role          Role   `json:"role"`
	UserID        int    `json:"user_id"`
	Username      string `json:"username"`
	StudentNumber string `json:"student_id,omitempty"`
}

// Profile describes the account behind the current token.
type Profile struct {
	Role          Role   `json:"role"`
	UserID        int    `json:"user_id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	StudentNumber string `json:"student_id,omitempty"`
}

package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDuplicateName    ErrCode = "DUPLICATE_NAME"
	ErrDuplicateUser    ErrCode = "DUPLICATE_USERNAME"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Faces & attendance ────────────────────────────────────────────
	ErrNoFaceDetected     ErrCode = "NO_FACE_DETECTED"
	ErrDuplicateFace      ErrCode = "DUPLICATE_FACE"
	ErrDuplicateStudentID ErrCode = "DUPLICATE_STUDENT_ID"
	ErrModuleMismatch     ErrCode = "MODULE_MISMATCH"
	ErrImageRequired      ErrCode = "IMAGE_REQUIRED"
	ErrInvalidImage       ErrCode = "INVALID_IMAGE"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrUnsupportedFmt  ErrCode = "UNSUPPORTED_EXPORT_FORMAT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid username or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Authentication token required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDuplicateName:
		return "A record with this name already exists."
	case ErrDuplicateUser:
		return "Username is already taken."
	case ErrDependencyExists:
		return "This record is still in use and cannot be deleted."

	// ─── Faces & attendance ────────────────────────────────────────────
	case ErrNoFaceDetected:
		return "No face detected in the image."
	case ErrDuplicateFace:
		return "This face is already enrolled for another student."
	case ErrDuplicateStudentID:
		return "Student ID already exists."
	case ErrModuleMismatch:
		return "The module does not belong to the selected qualification."
	case ErrImageRequired:
		return "An image file or camera capture is required."
	case ErrInvalidImage:
		return "The image could not be read."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrUnsupportedFile:
		return "Unsupported file type. Use JPEG, PNG or GIF."
	case ErrFileTooLarge:
		return "File is too large."
	case ErrUnsupportedFmt:
		return "Unsupported export format. Use pdf or xlsx."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."

	default:
		return "An unknown error occurred."
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/config"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrSessionInvalidated = errors.New("session invalidated")
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType     model.Role `json:"token_type"`
	UserID        int        `json:"user_id"`
	Username      string     `json:"username"`
	StudentNumber string     `json:"student_number,omitempty"` // Student only
}

// AuthService handles authentication, JWT, and session management.
type AuthService struct {
	cfg       *config.Config
	admins    repository.AdminRepository
	lecturers repository.LecturerRepository
	students  repository.StudentRepository
	sessions  repository.SessionStore
	log       zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	cfg *config.Config,
	admins repository.AdminRepository,
	lecturers repository.LecturerRepository,
	students repository.StudentRepository,
	sessions repository.SessionStore,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		cfg:       cfg,
		admins:    admins,
		lecturers: lecturers,
		students:  students,
		sessions:  sessions,
		log:       log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login authenticates against admins, then lecturers, then students. The
// first account whose username and password both match wins.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	if admin != nil && s.CheckPassword(admin.PasswordHash, password) == nil {
		return s.issue(ctx, model.RoleAdmin, admin.ID, admin.Username, "")
	}

	lecturer, err := s.lecturers.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup lecturer: %w", err)
	}
	if lecturer != nil && s.CheckPassword(lecturer.PasswordHash, password) == nil {
		return s.issue(ctx, model.RoleLecturer, lecturer.ID, lecturer.Username, "")
	}

	return s.LoginStudent(ctx, username, password)
}

// LoginStudent authenticates a student by username.
func (s *AuthService) LoginStudent(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	student, err := s.students.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup student: %w", err)
	}
	if err := s.CheckPassword(student.PasswordHash, password); err != nil {
		return nil, err
	}
	return s.issue(ctx, model.RoleStudent, student.ID, student.Username, student.StudentNumber)
}

// issue signs a token and records its JTI as the account's active session.
// A newer login replaces the previous session.
func (s *AuthService) issue(ctx context.Context, role model.Role, userID int, username, studentNumber string) (*model.LoginResponse, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType:     role,
		UserID:        userID,
		Username:      username,
		StudentNumber: studentNumber,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	if err := s.sessions.Save(ctx, role, userID, jti, s.cfg.JWTExpiry); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.log.Info().Str("role", string(role)).Int("user_id", userID).Msg("Login succeeded")

	return &model.LoginResponse{
		Token:         signed,
		Role:          role,
		UserID:        userID,
		Username:      username,
		StudentNumber: studentNumber,
	}, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	switch claims.TokenType {
	case model.RoleAdmin, model.RoleLecturer, model.RoleStudent:
	default:
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateSession checks that the token's JTI matches the account's active session.
func (s *AuthService) ValidateSession(ctx context.Context, claims *Claims) error {
	stored, err := s.sessions.Get(ctx, claims.TokenType, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionInvalidated
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != claims.ID {
		return ErrSessionInvalidated
	}
	return nil
}

// Logout revokes the account's active session.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	return s.sessions.Delete(ctx, claims.TokenType, claims.UserID)
}

// Profile loads the account behind claims.
func (s *AuthService) Profile(ctx context.Context, claims *Claims) (*model.Profile, error) {
	p := &model.Profile{Role: claims.TokenType, UserID: claims.UserID}
	switch claims.TokenType {
	case model.RoleAdmin:
		a, err := s.admins.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		p.Username, p.Name = a.Username, a.Username
	case model.RoleLecturer:
		l, err := s.lecturers.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		p.Username, p.Name = l.Username, l.Name
	case model.RoleStudent:
		st, err := s.students.GetByID(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		p.Username, p.Name, p.StudentNumber = st.Username, st.Name, st.StudentNumber
	default:
		return nil, ErrTokenInvalid
	}
	return p, nil
}

// CreateAdmin creates an admin account.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*model.Admin, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &model.Admin{Username: username, PasswordHash: hash}
	if err := s.admins.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return a, nil
}

// ResetAdminPassword sets a new password for an existing admin.
func (s *AuthService) ResetAdminPassword(ctx context.Context, username, password string) error {
	a, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.admins.UpdatePassword(ctx, a.ID, hash); err != nil {
		return err
	}
	// Force re-login with the new password.
	return s.sessions.Delete(ctx, model.RoleAdmin, a.ID)
}

// EnsureAdmin creates the admin when no account with that username exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	_, err := s.admins.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if _, err := s.CreateAdmin(ctx, username, password); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return false, nil
		}
		return false, err
	}
	s.log.Warn().Str("username", username).Msg("Default admin account created; change its password")
	return true, nil
}

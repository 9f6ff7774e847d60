package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
)

var ErrLecturerNotFound = errors.New("lecturer not found")

// LecturerService manages lecturer accounts.
type LecturerService struct {
	lecturers repository.LecturerRepository
	auth      *AuthService
	log       zerolog.Logger
}

// NewLecturerService creates a new LecturerService.
func NewLecturerService(lecturers repository.LecturerRepository, auth *AuthService, log zerolog.Logger) *LecturerService {
	return &LecturerService{
		lecturers: lecturers,
		auth:      auth,
		log:       log.With().Str("component", "lecturer_service").Logger(),
	}
}

// Create adds a lecturer. The name defaults to the username.
func (s *LecturerService) Create(ctx context.Context, req model.CreateLecturerRequest) (*model.Lecturer, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	name := req.Name
	if name == "" {
		name = req.Username
	}
	l := &model.Lecturer{Name: name, Username: req.Username, PasswordHash: hash}
	if err := s.lecturers.Create(ctx, l); err != nil {
		return nil, mapLecturerError(err)
	}
	s.log.Info().Int("lecturer_id", l.ID).Str("username", l.Username).Msg("Lecturer created")
	return l, nil
}

func (s *LecturerService) List(ctx context.Context) ([]model.Lecturer, error) {
	return s.lecturers.List(ctx)
}

func (s *LecturerService) Get(ctx context.Context, id int) (*model.Lecturer, error) {
	l, err := s.lecturers.GetByID(ctx, id)
	if err != nil {
		return nil, mapLecturerError(err)
	}
	return l, nil
}

// Update changes a lecturer's name and username, and the password when given.
func (s *LecturerService) Update(ctx context.Context, id int, req model.UpdateLecturerRequest) (*model.Lecturer, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Name = req.Name
	l.Username = req.Username
	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		l.PasswordHash = hash
	}
	if err := s.lecturers.Update(ctx, l); err != nil {
		return nil, mapLecturerError(err)
	}
	return l, nil
}

func (s *LecturerService) Delete(ctx context.Context, id int) error {
	if err := s.lecturers.Delete(ctx, id); err != nil {
		return mapLecturerError(err)
	}
	s.log.Info().Int("lecturer_id", id).Msg("Lecturer deleted")
	return nil
}

func mapLecturerError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrLecturerNotFound
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrDuplicateUsername
	}
	return err
}

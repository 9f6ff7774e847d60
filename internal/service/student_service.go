package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
	"github.com/stemsi/facetrack-backend/internal/response"
)

// Student errors.
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrDuplicateStudentID = errors.New("student ID already exists")
	ErrNoFaceDetected     = errors.New("no face detected in image")
	ErrDuplicateFace      = errors.New("face already enrolled for another student")
)

// StudentService handles enrollment and student management.
type StudentService struct {
	students repository.StudentRepository
	quals    repository.QualificationRepository
	faces    *FaceIndexService
	photos   *PhotoService
	auth     *AuthService
	log      zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(
	students repository.StudentRepository,
	quals repository.QualificationRepository,
	faces *FaceIndexService,
	photos *PhotoService,
	auth *AuthService,
	log zerolog.Logger,
) *StudentService {
	return &StudentService{
		students: students,
		quals:    quals,
		faces:    faces,
		photos:   photos,
		auth:     auth,
		log:      log.With().Str("component", "student_service").Logger(),
	}
}

// Enroll registers a new student from a photo. The first detected face is
// used and must not match an already enrolled student.
func (s *StudentService) Enroll(ctx context.Context, req model.EnrollStudentRequest, image []byte) (*model.Student, error) {
	// 1. Qualification and student number
	qual, err := s.quals.GetByID(ctx, req.QualificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQualificationNotFound
		}
		return nil, err
	}
	if _, err := s.students.GetByNumber(ctx, req.StudentNumber); err == nil {
		return nil, ErrDuplicateStudentID
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 2. Face
	encs, err := s.faces.Detect(ctx, image)
	if err != nil {
		return nil, err
	}
	if len(encs) == 0 {
		return nil, ErrNoFaceDetected
	}
	enc := encs[0]
	if other, dup := s.faces.FindDuplicate(enc); dup {
		s.log.Info().Str("student_id", req.StudentNumber).Str("matches", other).Msg("Rejected duplicate face")
		return nil, ErrDuplicateFace
	}

	// 3. Photo and row
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	photo, err := s.photos.Stage(req.StudentNumber, image)
	if err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}
	defer photo.Discard()

	name := req.Name
	if name == "" {
		name = "Student " + req.StudentNumber
	}
	student := &model.Student{
		StudentNumber:   req.StudentNumber,
		Name:            name,
		Username:        req.Username,
		FaceEncoding:    enc.Bytes(),
		PasswordHash:    hash,
		QualificationID: qual.ID,
		PhotoPath:       photo.URL(),
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, mapStudentWriteError(err)
	}
	if err := photo.Commit(); err != nil {
		if delErr := s.students.Delete(ctx, student.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("student_id", student.StudentNumber).Msg("Failed to roll back student without photo")
		}
		return nil, err
	}
	student.QualificationName = qual.Name

	// 4. Index
	if err := s.faces.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("Face index refresh after enroll failed")
	}

	s.log.Info().Str("student_id", student.StudentNumber).Msg("Student enrolled")
	return student, nil
}

// List returns a page of students.
func (s *StudentService) List(ctx context.Context, filter model.StudentFilter, page, perPage int) ([]model.Student, *response.Pagination, error) {
	page, perPage, limit, offset := normalizePage(page, perPage)
	students, total, err := s.students.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return students, newPagination(page, perPage, total), nil
}

// Get returns a student by student number.
func (s *StudentService) Get(ctx context.Context, studentNumber string) (*model.Student, error) {
	st, err := s.students.GetByNumber(ctx, studentNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return st, nil
}

// Update modifies a student. When image is non-nil the face encoding and
// photo are replaced and the index is refreshed.
func (s *StudentService) Update(ctx context.Context, studentNumber string, req model.UpdateStudentRequest, image []byte) (*model.Student, error) {
	st, err := s.Get(ctx, studentNumber)
	if err != nil {
		return nil, err
	}

	st.Name = req.Name
	if req.Username != "" {
		st.Username = req.Username
	}
	if req.QualificationID > 0 && req.QualificationID != st.QualificationID {
		qual, err := s.quals.GetByID(ctx, req.QualificationID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrQualificationNotFound
			}
			return nil, err
		}
		st.QualificationID, st.QualificationName = qual.ID, qual.Name
	}
	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		st.PasswordHash = hash
	}

	var photo *StagedPhoto
	if image != nil {
		encs, err := s.faces.Detect(ctx, image)
		if err != nil {
			return nil, err
		}
		if len(encs) == 0 {
			return nil, ErrNoFaceDetected
		}
		if _, dup := s.faces.FindDuplicate(encs[0], st.StudentNumber); dup {
			return nil, ErrDuplicateFace
		}
		photo, err = s.photos.Stage(st.StudentNumber, image)
		if err != nil {
			return nil, fmt.Errorf("save photo: %w", err)
		}
		defer photo.Discard()
		st.FaceEncoding = encs[0].Bytes()
		st.PhotoPath = photo.URL()
	}

	// The stored photo is only replaced once the row carrying its encoding is written.
	if err := s.students.Update(ctx, st); err != nil {
		return nil, mapStudentWriteError(err)
	}

	if photo != nil {
		if err := photo.Commit(); err != nil {
			s.log.Error().Err(err).Str("student_id", st.StudentNumber).Msg("Failed to replace photo after update")
		}
		if err := s.faces.Refresh(ctx); err != nil {
			s.log.Error().Err(err).Msg("Face index refresh after update failed")
		}
	}
	return st, nil
}

// Delete removes a student, their photo and their face from the index.
func (s *StudentService) Delete(ctx context.Context, studentNumber string) error {
	st, err := s.Get(ctx, studentNumber)
	if err != nil {
		return err
	}
	if err := s.students.Delete(ctx, st.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	if err := s.photos.Remove(st.StudentNumber); err != nil {
		s.log.Error().Err(err).Str("student_id", st.StudentNumber).Msg("Failed to remove photo")
	}
	if err := s.faces.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("Face index refresh after delete failed")
	}

	s.log.Info().Str("student_id", st.StudentNumber).Msg("Student deleted")
	return nil
}

func mapStudentWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateStudentNumber):
		return ErrDuplicateStudentID
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrDuplicateUsername
	case errors.Is(err, repository.ErrForeignKey):
		return ErrQualificationNotFound
	case errors.Is(err, repository.ErrNotFound):
		return ErrStudentNotFound
	}
	return err
}

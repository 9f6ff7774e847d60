package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
)

var ErrQualificationNotFound = errors.New("qualification not found")

// QualificationService handles qualification business logic.
type QualificationService struct {
	quals repository.QualificationRepository
	log   zerolog.Logger
}

// NewQualificationService creates a new QualificationService.
func NewQualificationService(quals repository.QualificationRepository, log zerolog.Logger) *QualificationService {
	return &QualificationService{
		quals: quals,
		log:   log.With().Str("component", "qualification_service").Logger(),
	}
}

func (s *QualificationService) List(ctx context.Context) ([]model.Qualification, error) {
	return s.quals.List(ctx)
}

func (s *QualificationService) Get(ctx context.Context, id int) (*model.Qualification, error) {
	q, err := s.quals.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogError(err, ErrQualificationNotFound)
	}
	return q, nil
}

func (s *QualificationService) Create(ctx context.Context, req model.QualificationRequest) (*model.Qualification, error) {
	q := &model.Qualification{Name: req.Name, Description: req.Description}
	if err := s.quals.Create(ctx, q); err != nil {
		return nil, mapCatalogError(err, ErrQualificationNotFound)
	}
	return q, nil
}

func (s *QualificationService) Update(ctx context.Context, id int, req model.QualificationRequest) (*model.Qualification, error) {
	q := &model.Qualification{ID: id, Name: req.Name, Description: req.Description}
	if err := s.quals.Update(ctx, q); err != nil {
		return nil, mapCatalogError(err, ErrQualificationNotFound)
	}
	return q, nil
}

// Delete removes a qualification that no module or student refers to.
func (s *QualificationService) Delete(ctx context.Context, id int) error {
	if err := s.quals.Delete(ctx, id); err != nil {
		return mapCatalogError(err, ErrQualificationNotFound)
	}
	s.log.Info().Int("qualification_id", id).Msg("Qualification deleted")
	return nil
}

// mapCatalogError converts repository sentinels for qualifications and modules.
func mapCatalogError(err, notFound error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrDuplicateName):
		return ErrDuplicateName
	case errors.Is(err, repository.ErrForeignKey):
		return ErrDependencyExists
	}
	return err
}

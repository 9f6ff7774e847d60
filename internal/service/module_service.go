package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
)

var ErrModuleNotFound = errors.New("module not found")

// ModuleService handles module business logic.
type ModuleService struct {
	modules repository.ModuleRepository
	quals   repository.QualificationRepository
	log     zerolog.Logger
}

// NewModuleService creates a new ModuleService.
func NewModuleService(modules repository.ModuleRepository, quals repository.QualificationRepository, log zerolog.Logger) *ModuleService {
	return &ModuleService{
		modules: modules,
		quals:   quals,
		log:     log.With().Str("component", "module_service").Logger(),
	}
}

func (s *ModuleService) List(ctx context.Context, qualificationID *int) ([]model.Module, error) {
	return s.modules.List(ctx, qualificationID)
}

func (s *ModuleService) Get(ctx context.Context, id int) (*model.Module, error) {
	m, err := s.modules.GetByID(ctx, id)
	if err != nil {
		return nil, mapCatalogError(err, ErrModuleNotFound)
	}
	return m, nil
}

func (s *ModuleService) Create(ctx context.Context, req model.ModuleRequest) (*model.Module, error) {
	qual, err := s.requireQualification(ctx, req.QualificationID)
	if err != nil {
		return nil, err
	}
	m := &model.Module{Name: req.Name, QualificationID: qual.ID}
	if err := s.modules.Create(ctx, m); err != nil {
		return nil, mapCatalogError(err, ErrModuleNotFound)
	}
	m.QualificationName = qual.Name
	return m, nil
}

func (s *ModuleService) Update(ctx context.Context, id int, req model.ModuleRequest) (*model.Module, error) {
	qual, err := s.requireQualification(ctx, req.QualificationID)
	if err != nil {
		return nil, err
	}
	m := &model.Module{ID: id, Name: req.Name, QualificationID: qual.ID}
	if err := s.modules.Update(ctx, m); err != nil {
		return nil, mapCatalogError(err, ErrModuleNotFound)
	}
	m.QualificationName = qual.Name
	return m, nil
}

// Delete removes a module without attendance records.
func (s *ModuleService) Delete(ctx context.Context, id int) error {
	if err := s.modules.Delete(ctx, id); err != nil {
		return mapCatalogError(err, ErrModuleNotFound)
	}
	s.log.Info().Int("module_id", id).Msg("Module deleted")
	return nil
}

func (s *ModuleService) requireQualification(ctx context.Context, id int) (*model.Qualification, error) {
	q, err := s.quals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQualificationNotFound
		}
		return nil, err
	}
	return q, nil
}

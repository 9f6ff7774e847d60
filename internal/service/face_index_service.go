package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/config"
	"github.com/stemsi/facetrack-backend/internal/face"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
)

// ErrInvalidImage is returned when an upload cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// FaceIndexService owns the in-memory face index and keeps it consistent with
// the students table. Every instance reloads when another instance publishes
// on the reload channel.
type FaceIndexService struct {
	cfg        *config.Config
	students   repository.StudentRepository
	detector   face.Detector
	index      *face.Index
	rdb        *redis.Client
	instanceID string
	log        zerolog.Logger

	// loadMu orders loads so a slower, older snapshot never replaces a newer one.
	loadMu sync.Mutex
}

// NewFaceIndexService creates a new FaceIndexService. rdb may be nil, in
// which case reloads are not broadcast.
func NewFaceIndexService(
	cfg *config.Config,
	students repository.StudentRepository,
	detector face.Detector,
	rdb *redis.Client,
	log zerolog.Logger,
) *FaceIndexService {
	return &FaceIndexService{
		cfg:        cfg,
		students:   students,
		detector:   detector,
		index:      face.NewIndex(),
		rdb:        rdb,
		instanceID: uuid.New().String(),
		log:        log.With().Str("component", "face_index").Logger(),
	}
}

// InstanceID identifies this process on the reload channel.
func (s *FaceIndexService) InstanceID() string {
	return s.instanceID
}

// Load rebuilds the index from the students table. Rows with a corrupt
// encoding are skipped.
func (s *FaceIndexService) Load(ctx context.Context) (int, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	rows, err := s.students.ListEncodings(ctx)
	if err != nil {
		return 0, fmt.Errorf("list encodings: %w", err)
	}

	entries := make([]face.Entry, 0, len(rows))
	for _, row := range rows {
		enc, err := face.UnmarshalEncoding(row.Encoding)
		if err != nil {
			s.log.Warn().Err(err).Str("student_id", row.StudentNumber).Msg("Skipping corrupt face encoding")
			continue
		}
		entries = append(entries, face.Entry{StudentNumber: row.StudentNumber, Encoding: enc})
	}

	s.index.Replace(entries)
	s.log.Info().Int("count", len(entries)).Msg("Face index loaded")
	return len(entries), nil
}

// Refresh reloads the index and tells the other instances to do the same.
func (s *FaceIndexService) Refresh(ctx context.Context) error {
	if _, err := s.Load(ctx); err != nil {
		return err
	}
	if s.rdb == nil {
		return nil
	}
	if err := s.rdb.Publish(ctx, config.WorkerKey.FaceIndexReloadChannel, s.instanceID).Err(); err != nil {
		// Local index is already fresh; peers catch up on their next reload.
		s.log.Error().Err(err).Msg("Failed to publish face index reload")
	}
	return nil
}

// HandleReloadNotice reloads the index for notices published by other instances.
func (s *FaceIndexService) HandleReloadNotice(ctx context.Context, origin string) error {
	if origin == s.instanceID {
		return nil
	}
	_, err := s.Load(ctx)
	return err
}

// Detect returns one encoding per face found in image.
func (s *FaceIndexService) Detect(ctx context.Context, image []byte) ([]face.Encoding, error) {
	encs, err := s.detector.Detect(ctx, image)
	if err != nil {
		if errors.Is(err, face.ErrUnsupportedImage) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		return nil, fmt.Errorf("detect faces: %w", err)
	}
	return encs, nil
}

// Identify detects faces in image and returns the number of faces and the
// student numbers within the match tolerance.
func (s *FaceIndexService) Identify(ctx context.Context, image []byte) (int, []string, error) {
	encs, err := s.Detect(ctx, image)
	if err != nil {
		return 0, nil, err
	}
	return len(encs), s.index.Match(encs, s.cfg.FaceMatchTolerance), nil
}

// FindDuplicate returns the enrolled student whose face is within the
// duplicate tolerance of enc, ignoring the students in exclude.
func (s *FaceIndexService) FindDuplicate(enc face.Encoding, exclude ...string) (string, bool) {
	m, ok := s.index.Nearest(enc, s.cfg.FaceDuplicateTolerance, exclude...)
	if !ok {
		return "", false
	}
	return m.StudentNumber, true
}

// Stats reports the size and age of the index.
func (s *FaceIndexService) Stats() model.FaceIndexStats {
	return model.FaceIndexStats{
		Count:              s.index.Len(),
		LoadedAt:           s.index.LoadedAt(),
		MatchTolerance:     s.cfg.FaceMatchTolerance,
		DuplicateTolerance: s.cfg.FaceDuplicateTolerance,
	}
}

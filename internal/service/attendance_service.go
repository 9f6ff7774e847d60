package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/face"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/repository"
	"github.com/stemsi/facetrack-backend/internal/response"
)

// ErrModuleMismatch is returned when a module is not part of the qualification.
var ErrModuleMismatch = errors.New("module does not belong to qualification")

// liveMarks is what every present student earns in a live capture session.
const liveMarks = 1

// AttendanceService turns classroom photos into attendance records.
type AttendanceService struct {
	students   repository.StudentRepository
	quals      repository.QualificationRepository
	modules    repository.ModuleRepository
	lecturers  repository.LecturerRepository
	attendance repository.AttendanceRepository
	live       repository.LiveAttendanceStore
	faces      *FaceIndexService
	log        zerolog.Logger
	now        func() time.Time
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	students repository.StudentRepository,
	quals repository.QualificationRepository,
	modules repository.ModuleRepository,
	lecturers repository.LecturerRepository,
	attendance repository.AttendanceRepository,
	live repository.LiveAttendanceStore,
	faces *FaceIndexService,
	log zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		students:   students,
		quals:      quals,
		modules:    modules,
		lecturers:  lecturers,
		attendance: attendance,
		live:       live,
		faces:      faces,
		log:        log.With().Str("component", "attendance_service").Logger(),
		now:        time.Now,
	}
}

// target is the class a register is taken for.
type target struct {
	qual         *model.Qualification
	module       *model.Module
	lecturerName string
}

func (s *AttendanceService) resolve(ctx context.Context, lecturerID, qualificationID, moduleID int) (*target, error) {
	qual, err := s.quals.GetByID(ctx, qualificationID)
	if err != nil {
		return nil, mapCatalogError(err, ErrQualificationNotFound)
	}
	mod, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, mapCatalogError(err, ErrModuleNotFound)
	}
	if mod.QualificationID != qual.ID {
		return nil, ErrModuleMismatch
	}
	lecturer, err := s.lecturers.GetByID(ctx, lecturerID)
	if err != nil {
		return nil, mapLecturerError(err)
	}
	return &target{qual: qual, module: mod, lecturerName: lecturer.Name}, nil
}

// CheckTarget validates a qualification and module pair before a live session starts.
func (s *AttendanceService) CheckTarget(ctx context.Context, lecturerID, qualificationID, moduleID int) error {
	_, err := s.resolve(ctx, lecturerID, qualificationID, moduleID)
	return err
}

// Identify reports which enrolled students appear in image.
func (s *AttendanceService) Identify(ctx context.Context, image []byte) (*model.IdentifyResult, error) {
	faces, numbers, err := s.faces.Identify(ctx, image)
	if err != nil {
		return nil, err
	}
	students, err := s.students.GetByNumbers(ctx, numbers)
	if err != nil {
		return nil, err
	}
	return &model.IdentifyResult{
		FacesDetected:  faces,
		NoFaces:        faces == 0,
		NoStudents:     faces > 0 && len(numbers) == 0,
		StudentNumbers: numbers,
		Students:       students,
	}, nil
}

// MarkRegister records attendance for every student of the qualification
// from one photo. Matched students are Present with the marks given for them;
// everyone else is Absent. A missing photo, or one that cannot be processed,
// marks everyone absent.
func (s *AttendanceService) MarkRegister(ctx context.Context, lecturerID, qualificationID, moduleID int, image []byte, marks map[string]int) (*model.AttendanceSession, error) {
	t, err := s.resolve(ctx, lecturerID, qualificationID, moduleID)
	if err != nil {
		return nil, err
	}

	var (
		faces   int
		numbers []string
	)
	if image != nil {
		faces, numbers, err = s.faces.Identify(ctx, image)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Warn().Err(err).Int("module_id", moduleID).Msg("Face detection failed, nobody marked present")
			faces, numbers = 0, nil
		}
	}

	return s.record(ctx, t, faces, numbers, func(n string) int { return marks[n] })
}

// AwardMarks records attendance with the same marks for every listed student.
func (s *AttendanceService) AwardMarks(ctx context.Context, lecturerID, qualificationID, moduleID int, studentNumbers []string, marks int) (*model.AttendanceSession, error) {
	t, err := s.resolve(ctx, lecturerID, qualificationID, moduleID)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, t, 0, studentNumbers, func(string) int { return marks })
}

// LiveCapture marks a register from a single camera capture.
func (s *AttendanceService) LiveCapture(ctx context.Context, lecturerID int, req model.LiveAttendanceRequest) (*model.AttendanceSession, error) {
	image, err := face.DecodeDataURL(req.CameraImage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	t, err := s.resolve(ctx, lecturerID, req.QualificationID, req.ModuleID)
	if err != nil {
		return nil, err
	}
	faces, numbers, err := s.faces.Identify(ctx, image)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, t, faces, numbers, func(string) int { return liveMarks })
}

// LiveFrame matches one frame of a live session and adds the matches to the session.
func (s *AttendanceService) LiveFrame(ctx context.Context, sessionID string, image []byte) (*model.LiveFrameResult, error) {
	faces, numbers, err := s.faces.Identify(ctx, image)
	if err != nil {
		return nil, err
	}
	if err := s.live.AddMatched(ctx, sessionID, numbers...); err != nil {
		return nil, fmt.Errorf("store live matches: %w", err)
	}
	all, err := s.live.Matched(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load live matches: %w", err)
	}
	if numbers == nil {
		numbers = []string{}
	}
	return &model.LiveFrameResult{FacesDetected: faces, Matched: numbers, SessionMatched: all}, nil
}

// FinishLive persists a live session and discards its accumulated matches.
func (s *AttendanceService) FinishLive(ctx context.Context, sessionID string, lecturerID, qualificationID, moduleID int) (*model.AttendanceSession, error) {
	t, err := s.resolve(ctx, lecturerID, qualificationID, moduleID)
	if err != nil {
		return nil, err
	}
	numbers, err := s.live.Matched(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load live matches: %w", err)
	}
	session, err := s.record(ctx, t, 0, numbers, func(string) int { return liveMarks })
	if err != nil {
		return nil, err
	}
	if err := s.live.Clear(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to clear live session")
	}
	return session, nil
}

// DiscardLive drops the matches of an abandoned live session.
func (s *AttendanceService) DiscardLive(ctx context.Context, sessionID string) error {
	return s.live.Clear(ctx, sessionID)
}

// record writes one record per student of the qualification at a shared timestamp.
func (s *AttendanceService) record(ctx context.Context, t *target, facesDetected int, present []string, marksFor func(string) int) (*model.AttendanceSession, error) {
	students, err := s.students.ListByQualification(ctx, t.qual.ID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	presentSet := make(map[string]struct{}, len(present))
	for _, n := range present {
		presentSet[n] = struct{}{}
	}

	recordedAt := s.now().Truncate(time.Second)
	records := make([]model.AttendanceRecord, 0, len(students))
	presentStudents := []model.Student{}
	for _, st := range students {
		rec := model.AttendanceRecord{
			StudentID:       st.ID,
			ModuleID:        t.module.ID,
			QualificationID: t.qual.ID,
			RecordedAt:      recordedAt,
			Status:          model.StatusAbsent,
		}
		if _, ok := presentSet[st.StudentNumber]; ok {
			rec.Status = model.StatusPresent
			rec.Marks = max(marksFor(st.StudentNumber), 0)
			presentStudents = append(presentStudents, st)
		}
		records = append(records, rec)
	}

	if err := s.attendance.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("save attendance: %w", err)
	}

	s.log.Info().
		Int("module_id", t.module.ID).
		Int("present", len(presentStudents)).
		Int("absent", len(students)-len(presentStudents)).
		Msg("Register marked")

	return &model.AttendanceSession{
		Module:         *t.module,
		Qualification:  *t.qual,
		LecturerName:   t.lecturerName,
		RecordedAt:     recordedAt,
		AttendanceTime: recordedAt.Format(model.AttendanceTimeLayout),
		FacesDetected:  facesDetected,
		Present:        presentStudents,
		PresentCount:   len(presentStudents),
		AbsentCount:    len(students) - len(presentStudents),
	}, nil
}

// Records lists attendance records newest first.
func (s *AttendanceService) Records(ctx context.Context, filter model.AttendanceFilter, page, perPage int) ([]model.AttendanceRecord, *response.Pagination, error) {
	page, perPage, limit, offset := normalizePage(page, perPage)
	records, total, err := s.attendance.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return records, newPagination(page, perPage, total), nil
}

// Dashboard returns a student's profile with every record, newest first.
func (s *AttendanceService) Dashboard(ctx context.Context, studentID int) (*model.StudentDashboard, error) {
	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	records, _, err := s.attendance.List(ctx, model.AttendanceFilter{StudentID: &st.ID}, 0, 0)
	if err != nil {
		return nil, err
	}

	var summary model.AttendanceSummary
	for _, r := range records {
		if r.Status == model.StatusPresent {
			summary.Present++
		} else {
			summary.Absent++
		}
		summary.TotalMarks += r.Marks
	}
	return &model.StudentDashboard{Student: *st, Records: records, Summary: summary}, nil
}

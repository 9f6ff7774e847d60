package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/report"
	"github.com/stemsi/facetrack-backend/internal/repository"
	"github.com/stemsi/facetrack-backend/internal/response"
)

var (
	ErrRegisterNotFound  = errors.New("register not found")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Export is a rendered register document.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
}

// RegisterService saves and exports attendance registers.
type RegisterService struct {
	registers repository.RegisterRepository
	students  repository.StudentRepository
	pdf       *report.PDFRenderer
	log       zerolog.Logger
	now       func() time.Time
}

// NewRegisterService creates a new RegisterService.
func NewRegisterService(
	registers repository.RegisterRepository,
	students repository.StudentRepository,
	pdf *report.PDFRenderer,
	log zerolog.Logger,
) *RegisterService {
	return &RegisterService{
		registers: registers,
		students:  students,
		pdf:       pdf,
		log:       log.With().Str("component", "register_service").Logger(),
		now:       time.Now,
	}
}

// ParseAttendanceTime parses s in AttendanceTimeLayout, falling back to now
// when s is empty or malformed.
func ParseAttendanceTime(s string, now time.Time) time.Time {
	t, err := time.ParseInLocation(model.AttendanceTimeLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return now
	}
	return t
}

// SplitStudentIDs splits a comma separated list, dropping blanks and repeats.
func SplitStudentIDs(csv string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(csv, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// UnknownModuleName is stored when a register form leaves the module blank.
const UnknownModuleName = "Unknown"

func (s *RegisterService) fromRequest(req model.SaveRegisterRequest, lecturerName string) *model.Register {
	name := strings.TrimSpace(req.LecturerName)
	if name == "" {
		name = lecturerName
	}
	module := strings.TrimSpace(req.ModuleName)
	if module == "" {
		module = UnknownModuleName
	}
	return &model.Register{
		ModuleName:     module,
		LecturerName:   name,
		RecordedAt:     ParseAttendanceTime(req.AttendanceTime, s.now().Truncate(time.Second)),
		StudentNumbers: SplitStudentIDs(req.StudentIDs),
	}
}

// Save stores a register. lecturerName is used when the form leaves it blank.
func (s *RegisterService) Save(ctx context.Context, req model.SaveRegisterRequest, lecturerName string) (*model.Register, error) {
	reg := s.fromRequest(req, lecturerName)
	if err := s.registers.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("save register: %w", err)
	}
	s.log.Info().Int("register_id", reg.ID).Int("students", len(reg.StudentNumbers)).Msg("Register saved")
	return reg, nil
}

// List returns registers newest first.
func (s *RegisterService) List(ctx context.Context, page, perPage int) ([]model.Register, *response.Pagination, error) {
	page, perPage, limit, offset := normalizePage(page, perPage)
	regs, total, err := s.registers.List(ctx, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return regs, newPagination(page, perPage, total), nil
}

func (s *RegisterService) Get(ctx context.Context, id int) (*model.Register, error) {
	reg, err := s.registers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRegisterNotFound
		}
		return nil, err
	}
	return reg, nil
}

// ExportForm renders a register straight from form fields without saving it.
// A submitted attendance_time is printed as typed.
func (s *RegisterService) ExportForm(ctx context.Context, req model.SaveRegisterRequest, lecturerName, format string) (*Export, error) {
	return s.export(ctx, s.fromRequest(req, lecturerName), strings.TrimSpace(req.AttendanceTime), format)
}

// ExportSaved renders a stored register.
func (s *RegisterService) ExportSaved(ctx context.Context, id int, format string) (*Export, error) {
	reg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.export(ctx, reg, "", format)
}

// export lists the attending students that still exist, ordered by number.
func (s *RegisterService) export(ctx context.Context, reg *model.Register, timeText, format string) (*Export, error) {
	f, ok := report.ParseFormat(strings.ToLower(format))
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	students, err := s.students.GetByNumbers(ctx, reg.StudentNumbers)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	doc := report.Register{
		ModuleName:   reg.ModuleName,
		LecturerName: reg.LecturerName,
		RecordedAt:   reg.RecordedAt,
		TimeText:     timeText,
	}
	for _, st := range students {
		doc.Rows = append(doc.Rows, report.Row{StudentNumber: st.StudentNumber, Name: st.Name})
	}

	var data []byte
	switch f {
	case report.FormatXLSX:
		data, err = report.RenderXLSX(doc)
	default:
		data, err = s.pdf.Render(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", f, err)
	}
	return &Export{FileName: report.FileName(doc, f), ContentType: f.ContentType(), Data: data}, nil
}

package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stemsi/facetrack-backend/internal/config"
	"github.com/stemsi/facetrack-backend/internal/face"
)

// Sentinel errors for photo uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Image types a face can be detected in.
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// PhotoURLPrefix is the route student photos are served under.
const PhotoURLPrefix = "/photos/"

// PhotoService reads uploaded images and stores student photos on disk as
// <photo_dir>/<student_number>.jpg.
type PhotoService struct {
	cfg *config.Config
}

// NewPhotoService creates a new PhotoService.
func NewPhotoService(cfg *config.Config) *PhotoService {
	return &PhotoService{cfg: cfg}
}

// ReadUpload reads an uploaded image into memory after checking its size and
// sniffing its content type.
func (s *PhotoService) ReadUpload(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := s.CheckImage(data); err != nil {
		return nil, err
	}
	return data, nil
}

// CheckImage validates an in-memory image such as a decoded camera capture.
func (s *PhotoService) CheckImage(data []byte) error {
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, len(data), s.cfg.MaxUploadBytes)
	}
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, mt.String(), strings.Join(allowedImageTypes, ", "))
	}
	return nil
}

// Save stores the photo of a student as JPEG and returns its public URL path.
// An existing photo for the same student is replaced.
func (s *PhotoService) Save(studentNumber string, data []byte) (string, error) {
	staged, err := s.Stage(studentNumber, data)
	if err != nil {
		return "", err
	}
	if err := staged.Commit(); err != nil {
		return "", err
	}
	return staged.URL(), nil
}

// StagedPhoto is a photo written next to its final location. It replaces the
// stored photo only on Commit, so callers can write the database row first.
type StagedPhoto struct {
	tmp   string
	final string
	url   string
	done  bool
}

// Stage converts data to JPEG and writes it to a temporary file in the photo
// directory. The caller must Commit or Discard it.
func (s *PhotoService) Stage(studentNumber string, data []byte) (*StagedPhoto, error) {
	jpg, err := face.ToJPEG(data)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.cfg.PhotoDir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}

	name := photoFileName(studentNumber)
	tmp, err := os.CreateTemp(s.cfg.PhotoDir, name+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	if _, err := tmp.Write(jpg); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &StagedPhoto{
		tmp:   tmp.Name(),
		final: filepath.Join(s.cfg.PhotoDir, name),
		url:   PhotoURLPrefix + name,
	}, nil
}

// URL is the path the photo is served under once committed.
func (p *StagedPhoto) URL() string { return p.url }

// Commit moves the photo into place, replacing any previous one.
func (p *StagedPhoto) Commit() error {
	if p.done {
		return nil
	}
	p.done = true
	if err := os.Rename(p.tmp, p.final); err != nil {
		os.Remove(p.tmp)
		return fmt.Errorf("store photo: %w", err)
	}
	return nil
}

// Discard drops an uncommitted photo. It is a no-op after Commit.
func (p *StagedPhoto) Discard() {
	if p.done {
		return
	}
	p.done = true
	os.Remove(p.tmp)
}

// Remove deletes a student's photo. A missing file is not an error.
func (s *PhotoService) Remove(studentNumber string) error {
	err := os.Remove(filepath.Join(s.cfg.PhotoDir, photoFileName(studentNumber)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Path resolves a served file name to its location on disk. Only the base
// name is used so requests cannot escape the photo directory.
func (s *PhotoService) Path(name string) (string, bool) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." || !strings.HasSuffix(base, ".jpg") {
		return "", false
	}
	return filepath.Join(s.cfg.PhotoDir, base), true
}

func photoFileName(studentNumber string) string {
	return filepath.Base(studentNumber) + ".jpg"
}

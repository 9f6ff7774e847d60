// Package dlib adapts the go-face dlib bindings to face.Detector.
package dlib

import (
	"context"
	"fmt"
	"sync"

	goface "github.com/Kagami/go-face"
	"github.com/rs/zerolog/log"
	"github.com/stemsi/facetrack-backend/internal/face"
)

// Recognizer runs dlib face detection and encoding. The underlying dlib
// recognizer is not safe for concurrent use, so calls are serialized.
type Recognizer struct {
	mu  sync.Mutex
	rec *goface.Recognizer
}

// New loads the dlib models from modelDir. The directory must contain
// shape_predictor_5_face_landmarks.dat, dlib_face_recognition_resnet_model_v1.dat
// and mmod_human_face_detector.dat.
func New(modelDir string) (*Recognizer, error) {
	rec, err := goface.NewRecognizer(modelDir)
	if err != nil {
		return nil, fmt.Errorf("load face models from %s: %w", modelDir, err)
	}
	log.Info().Str("component", "face").Str("model_dir", modelDir).Msg("Face models loaded")
	return &Recognizer{rec: rec}, nil
}

// Detect implements face.Detector.
func (r *Recognizer) Detect(ctx context.Context, image []byte) ([]face.Encoding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jpg, err := face.ToJPEG(image)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil {
		return nil, fmt.Errorf("face recognizer closed")
	}

	faces, err := r.rec.Recognize(jpg)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	out := make([]face.Encoding, len(faces))
	for i, f := range faces {
		out[i] = face.Encoding(f.Descriptor)
	}
	return out, nil
}

// Close releases the dlib resources.
func (r *Recognizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec != nil {
		r.rec.Close()
		r.rec = nil
	}
}

package face

import "context"

// Detector finds faces in an image and computes one encoding per face.
// An image without faces yields an empty slice and a nil error.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]Encoding, error)
}

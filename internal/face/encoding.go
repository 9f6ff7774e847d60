// Package face holds face encodings, the detector contract and the in-memory
// index that attendance matching runs against.
package face

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Dimensions is the length of a face encoding.
const Dimensions = 128

// encodedSize is the byte length of a marshalled Encoding.
const encodedSize = Dimensions * 4

// ErrInvalidEncoding is returned when stored bytes are not a valid encoding.
var ErrInvalidEncoding = errors.New("invalid face encoding")

// Encoding is a 128-dimensional face descriptor.
type Encoding [Dimensions]float32

// MarshalBinary encodes e as 128 little-endian float32 values.
func (e Encoding) MarshalBinary() ([]byte, error) {
	buf := make([]byte, encodedSize)
	for i, v := range e {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf, nil
}

// Bytes is MarshalBinary without the error.
func (e Encoding) Bytes() []byte {
	b, _ := e.MarshalBinary()
	return b
}

// UnmarshalEncoding decodes bytes produced by MarshalBinary.
func UnmarshalEncoding(data []byte) (Encoding, error) {
	var e Encoding
	if len(data) != encodedSize {
		return e, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidEncoding, len(data), encodedSize)
	}
	for i := range e {
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return e, fmt.Errorf("%w: non-finite value at %d", ErrInvalidEncoding, i)
		}
		e[i] = v
	}
	return e, nil
}

// Distance returns the Euclidean distance between two encodings.
func Distance(a, b Encoding) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

package face

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidDataURL is returned for camera captures that cannot be decoded.
var ErrInvalidDataURL = errors.New("invalid image data URL")

// DecodeDataURL decodes a browser camera capture such as
// "data:image/jpeg;base64,/9j/4AAQ...". A bare base64 payload is accepted too.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidDataURL
	}

	payload := s
	if strings.HasPrefix(s, "data:") {
		header, encoded, ok := strings.Cut(s, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, ErrInvalidDataURL
		}
		payload = encoded
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some capture libraries strip padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, ErrInvalidDataURL
		}
	}
	if len(data) == 0 {
		return nil, ErrInvalidDataURL
	}
	return data, nil
}

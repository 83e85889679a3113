package notescan

import (
	"encoding/base64"
	"strings"
	"unicode"
)

// DecodeImage decodes a base64 image payload. An optional data URI prefix
// ("data:image/png;base64,") is stripped before decoding and whitespace
// inside the payload is ignored.
//
// Returns EINVALID for an empty payload and EDECODE when the payload is not
// valid base64.
func DecodeImage(payload string) ([]byte, error) {
	if _, data, ok := strings.Cut(payload, ","); ok {
		payload = data
	}
	payload = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, payload)
	if payload == "" {
		return nil, Errorf(EINVALID, "image data required")
	}

	enc := base64.StdEncoding
	if !strings.HasSuffix(payload, "=") && len(payload)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	b, err := enc.DecodeString(payload)
	if err != nil {
		return nil, Errorf(EDECODE, "image data is not valid base64")
	}
	return b, nil
}

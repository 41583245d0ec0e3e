package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// maxPayloadBytes bounds request bodies.
const maxPayloadBytes = 1 << 20

// DecodePayload strictly decodes a JSON body into dest.
// With allowEmpty an empty body leaves dest untouched.
func DecodePayload(w http.ResponseWriter, r *http.Request, dest any, allowEmpty bool) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return errors.New("unsupported content type")
		}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if !errors.Is(err, io.EOF) || !allowEmpty {
			return err
		}
	}
	// ensure there's no extra data
	if dec.More() {
		return errors.New("extra data in request body")
	}
	return nil
}

// Package respond writes HTTP response bodies in the encoding the client asked for.
package respond

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ContentTypeMsgpack is served when the Accept header lists it
const ContentTypeMsgpack = "application/msgpack"

// WantsMsgpack reports whether the request prefers MessagePack over JSON
func WantsMsgpack(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case ContentTypeMsgpack, "application/x-msgpack":
			return true
		case "application/json":
			return false
		}
	}
	return false
}

// Write encodes data as msgpack or JSON depending on the request's Accept header.
// MessagePack keys follow the json struct tags so both encodings share one shape.
func Write(w http.ResponseWriter, r *http.Request, status int, data interface{}, log zerolog.Logger) {
	if WantsMsgpack(r) {
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(status)

		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(data); err != nil {
			log.Error().Err(err).Msg("Failed to encode msgpack response")
		}
		return
	}

	JSON(w, status, data, log)
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Error writes {"error": message} with the given status
func Error(w http.ResponseWriter, status int, message string, log zerolog.Logger) {
	JSON(w, status, map[string]string{"error": message}, log)
}

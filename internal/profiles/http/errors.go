package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

const maxFormBytes = 64 << 10

var errInvalidBody = errors.New("invalid request body")

// writeError renders err as {"message": ...}. Domain errors are the caller's
// fault and get a 400 with their own message; anything else is logged and
// reported as a 500 "<op> error: <detail>".
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if de, ok := domain.AsError(err); ok {
		httpx.WriteMessage(w, http.StatusBadRequest, de.Message)
		return
	}
	if errors.Is(err, errInvalidBody) {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slogx.FromContext(r.Context()).Error(op+" failed", slog.Any("err", err))
	httpx.WriteMessage(w, http.StatusInternalServerError, op+" error: "+err.Error())
}

// readFields reads a flat string object from a JSON body or a urlencoded
// form. Non-string JSON values are ignored.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	fields := make(map[string]string)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		for k, v := range raw {
			if s, ok := v.(string); ok {
				fields[k] = s
			}
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}
	return fields, nil
}

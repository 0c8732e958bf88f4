package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/getsentry/sentry-go"
)

const maxBodyBytes = 1 << 20

// errorResponse is the body of every error reply.
type errorResponse struct {
	Detail string `json:"detail"`
}

// messageResponse confirms a mutation.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// internalError logs and reports err, then answers with a classified message.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, detail string, err error) {
	s.logger.Error(detail, "method", r.Method, "path", r.URL.Path, "error", err)
	sentry.CaptureException(fmt.Errorf("%s %s: %s: %w", r.Method, r.URL.Path, detail, err))
	writeError(w, http.StatusInternalServerError, detail)
}

// decodeJSON reads a JSON body into v. A missing or malformed body is a
// validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return n, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(q url.Values, name string, def bool) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", name)
	}
	return b, nil
}

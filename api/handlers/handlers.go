// Package handlers provides HTTP handlers for the bedboss API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/databio/bedboss-sub000/internal/table"
	"github.com/databio/bedboss-sub000/pkg/bedboss"
)

// DefaultMaxBodyBytes caps uploaded interval files.
const DefaultMaxBodyBytes = 256 << 20

// API serves classification and compatibility requests.
type API struct {
	Pipeline     *bedboss.Pipeline
	MaxBodyBytes int64
	Logger       logrus.FieldLogger
}

// New creates an API around p.
func New(p *bedboss.Pipeline) *API {
	return &API{
		Pipeline:     p,
		MaxBodyBytes: DefaultMaxBodyBytes,
		Logger:       logrus.StandardLogger(),
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var (
		fe  *bedboss.FormatError
		ve  *bedboss.ValidationInputError
		mbe *http.MaxBytesError
		re  *requestError
	)
	switch {
	case errors.As(err, &mbe):
		status = http.StatusRequestEntityTooLarge
	case errors.As(err, &re):
		status = http.StatusBadRequest
	case errors.As(err, &fe):
		status = http.StatusBadRequest
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError && a.Logger != nil {
		a.Logger.WithError(err).Error("request failed")
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// requestError reports a malformed request.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func (a *API) body(w http.ResponseWriter, r *http.Request) io.Reader {
	if a.MaxBodyBytes > 0 {
		return http.MaxBytesReader(w, r.Body, a.MaxBodyBytes)
	}
	return r.Body
}

// spool copies the decompressed request body to a temporary BED file so it
// can be streamed by file based readers. The caller removes the file.
func (a *API) spool(w http.ResponseWriter, r *http.Request) (string, error) {
	src, err := table.Decompress(a.body(w, r))
	if err != nil {
		return "", &table.FormatError{Reason: "invalid gzip stream", Err: err}
	}

	f, err := os.CreateTemp("", "bedboss-*.bed")
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("receiving upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("receiving upload: %w", err)
	}
	return f.Name(), nil
}

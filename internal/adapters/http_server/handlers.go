// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_indexes/internal/app"
	"hotel_indexes/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Hotels *app.HotelService
	Q      *app.QueryService
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

type createdResponse struct {
	Message string       `json:"message"`
	ID      string       `json:"id"`
	Hotel   domain.Hotel `json:"hotel"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/api/hotels", h.createHotel)
	s.mux.Get("/api/hotels/test-single-field", h.query(app.PathSingleField))
	s.mux.Get("/api/hotels/test-compound", h.query(app.PathCompound))
	s.mux.Get("/api/hotels/test-text", h.query(app.PathText))
	s.mux.Get("/api/hotels/test-dynamic", h.query(app.PathDynamic))
	s.mux.Get("/api/hotels/indexes", h.listIndexes)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fields}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto a status deterministically:
// validation -> 400, everything else -> 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := domain.IsValidation(err); ok {
		writeProblem(w, http.StatusBadRequest, "Validation Failed", ve.Error(), ve.Fields)
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeProblem(w, http.StatusInternalServerError, "Storage Error", "the hotel store could not complete the request", nil)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if status == http.StatusOK && etag != "" {
		// If client already has this version, short-circuit.
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag) // include ETag on 304
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		detail := "body must be a JSON object"
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			detail = "body too large"
		} else if errors.Is(err, io.EOF) {
			detail = "body is empty"
		}
		writeProblem(w, http.StatusBadRequest, "Malformed JSON", detail, nil)
		return
	}

	hotel, err := h.Hotels.Create(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, createdResponse{
		Message: "Hotel created successfully",
		ID:      hotel.ID,
		Hotel:   hotel,
	})
}

// query serves one of the index-backed paths. Responses are always a JSON
// array, empty when nothing matches.
func (h *Handlers) query(path app.QueryPath) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := h.Q.Query(r.Context(), path, r.URL.Query())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, out)
	}
}

func (h *Handlers) listIndexes(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Indexes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

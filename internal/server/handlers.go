package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
)

// envelope matches the teacher's {data, metadata} response shape
// (internal/modules/risk/handlers.writeJSON) used across its HTTP API.
type envelope struct {
	Data     any            `json:"data"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := envelope{
		Data:     data,
		Metadata: map[string]any{"timestamp": time.Now().Format(time.RFC3339)},
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("failed to encode json response")
	}
}

// errorBody is the wire shape of a domain.Error, matching the stable
// {code, message, threshold, actual} record spec §7 calls for.
type errorBody struct {
	Code      domain.Code `json:"code"`
	Message   string      `json:"message"`
	Threshold *float64    `json:"threshold,omitempty"`
	Actual    *float64    `json:"actual,omitempty"`
}

// writeError maps a domain.Error to an HTTP status per its code category
// (spec §7's validation/upstream/data-quality/internal taxonomy) and
// writes {code, message} in the body. A non-domain error is treated as
// an internal error.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		s.log.Error().Err(err).Msg("unmapped error")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := statusForCode(derr.Code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Code: derr.Code, Message: derr.Message,
		Threshold: derr.Threshold, Actual: derr.Actual,
	})
}

func statusForCode(code domain.Code) int {
	switch code {
	case domain.CodeInvalidSymbol, domain.CodeInvalidPeriod, domain.CodeInvalidOverride,
		domain.CodeUnknownProfile, domain.CodeUnknownUniverse:
		return http.StatusBadRequest
	case domain.CodeInsufficientData:
		return http.StatusUnprocessableEntity
	case domain.CodeRateLimited:
		return http.StatusTooManyRequests
	case domain.CodeDataFetchError:
		return http.StatusBadGateway
	default: // CodeRankerError, CodeCalculationError, and anything unrecognized
		return http.StatusInternalServerError
	}
}

// decodeJSON reads and decodes the request body, rejecting unknown
// fields so a typo in a request never silently falls back to defaults.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

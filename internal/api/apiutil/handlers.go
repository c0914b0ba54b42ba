package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/authz"
)

// Stable machine codes carried on error payloads.
const (
	CodeNotFound        = "not_found"
	CodeInvalidState    = "invalid_state"
	CodeValidation      = "validation_error"
	CodeInvalidTimezone = "invalid_timezone"
	CodeInvalidDate     = "invalid_date"
	CodeConflict        = "conflict"
	CodeUnauthorized    = "unauthorized"
	CodeInternal        = "internal_error"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// ErrorPayload is the envelope every failed request returns.
type ErrorPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError writes the structured error envelope. A HandlerError keeps its
// status and code; anything else becomes a 500 with an internal code so
// unexpected failures never leak details.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		if handlerErr.Err != nil {
			logger.Debug().Err(handlerErr.Err).Str("code", handlerErr.Code).Msg("Request failed")
		}
		_ = WriteJSON(w, handlerErr.Status, ErrorPayload{
			Error: handlerErr.Message,
			Code:  handlerErr.Code,
		})
		return
	}

	logger.Error().Err(err).Msg("Unhandled request error")
	_ = WriteJSON(w, http.StatusInternalServerError, ErrorPayload{
		Error: "internal server error",
		Code:  CodeInternal,
	})
}

// ValidationError builds the standard 400 for malformed input.
func ValidationError(message string, err error) HandlerError {
	return HandlerError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: message,
		Err:     err,
	}
}

// RequireClubAccess checks that the caller's session grants access to clubID
// and writes the error response itself when it does not. Returns true when
// the request may proceed.
func RequireClubAccess(w http.ResponseWriter, r *http.Request, clubID int64) bool {
	logger := log.Ctx(r.Context())
	user := authz.UserFromContext(r.Context())
	if err := authz.RequireClubAccess(r.Context(), clubID); err != nil {
		logEvent := logger.Warn().Int64("club_id", clubID)
		if user != nil {
			logEvent = logEvent.Int64("user_id", user.ID)
		}
		switch {
		case errors.Is(err, authz.ErrUnauthenticated):
			logEvent.Msg("Club access denied: unauthenticated")
			_ = WriteJSON(w, http.StatusUnauthorized, ErrorPayload{
				Error: "authentication required",
				Code:  CodeUnauthorized,
			})
		case errors.Is(err, authz.ErrForbidden):
			logEvent.Msg("Club access denied: forbidden")
			_ = WriteJSON(w, http.StatusForbidden, ErrorPayload{
				Error: "access to this club is not allowed",
				Code:  CodeUnauthorized,
			})
		default:
			logger.Error().Int64("club_id", clubID).Err(err).Msg("Club access check failed")
			_ = WriteJSON(w, http.StatusInternalServerError, ErrorPayload{
				Error: "failed to authorize request",
				Code:  CodeInternal,
			})
		}
		return false
	}
	return true
}

package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/pkg/logger"
	"github.com/go-chi/chi"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess wraps data in a successful envelope
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteError writes a failed envelope with a plain message
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, Envelope{Success: false, Message: message})
}

// WriteAppError writes a typed application error. Validation details are
// passed through; causes never are.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, appErr *internal.AppError) {
	env := Envelope{
		Success: false,
		Message: appErr.Message,
		Code:    string(appErr.Code),
	}
	if details, ok := appErr.Details.(internal.ValidationErrors); ok {
		env.Message = appErr.GetDetailedMessage()
		env.Details = details.Errors
	}
	h.WriteJSON(w, appErr.StatusCode, env)
}

// HandleServiceError maps a service error to its HTTP response. Anything
// that is not an AppError is reported as a generic 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	lg := logger.From(r.Context())

	appErr, ok := internal.IsAppError(err)
	if !ok {
		lg.Error("unexpected service error", "path", r.URL.Path, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		lg.Error("service failure", "path", r.URL.Path, "code", appErr.Code, "error", err)
		h.WriteJSON(w, appErr.StatusCode, Envelope{
			Success: false,
			Message: "internal server error",
			Code:    string(appErr.Code),
		})
		return
	}

	lg.Debug("request rejected", "path", r.URL.Path, "code", appErr.Code, "error", err)
	h.WriteAppError(w, appErr)
}

// DecodeJSON decodes the request body into dst, rejecting unknown shapes
// with a validation error.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) *internal.AppError {
	if r.Body == nil {
		return internal.NewValidationError("request body is required", internal.ErrCodeInvalidInput)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return internal.NewValidationError("invalid request body", internal.ErrCodeInvalidInput)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	const prefix = "Bearer "
	if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(prefix):])
}

// ParseIDParam reads a positive integer id from the named URL parameter.
func (h *BaseHandler) ParseIDParam(r *http.Request, name string) (int64, *internal.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, "invalid "+name, internal.ErrCodeInvalidID)
	}
	return id, nil
}

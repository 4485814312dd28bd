package auth

import (
	"net/http"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/transport"
	"github.com/frahmantamala/calong-tick/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Exists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.Service.Exists(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", ExistsResponse{Exists: exists})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	resp, err := h.Service.Signup(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Admin account created successfully", resp)
}

func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var dto SigninDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	resp, err := h.Service.Signin(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Login successful", resp)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	adminID := internal.AdminIDFromContext(r.Context())
	if adminID == 0 {
		h.WriteAppError(w, internal.ErrInvalidToken)
		return
	}

	resp, err := h.Service.Profile(r.Context(), adminID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", resp)
}

// AuthMiddleware admits requests carrying a valid admin bearer token and
// puts the admin id into the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Warn("auth middleware: missing authorization token", "path", r.URL.Path)
			h.WriteAppError(w, internal.NewUnauthorizedError("Access token required", internal.ErrCodeInvalidToken))
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("auth middleware: token validation failed", "error", err, "path", r.URL.Path)
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := internal.ContextWithAdminID(r.Context(), claims.AdminID)
		ctx = logger.With(ctx, "admin_id", claims.AdminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

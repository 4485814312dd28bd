package employee

import (
	"net/http"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/transport"
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	emp, err := h.Service.Create(r.Context(), internal.AdminIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Employee created successfully.", emp.ToResponse())
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", ToResponses(list))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	emp, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", emp.ToResponse())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto UpdateEmployeeDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	emp, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Employee updated successfully.", emp.ToResponse())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Employee deleted successfully.", nil)
}

func (h *Handler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	var dto VerifyPinDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	emp, err := h.Service.VerifyPIN(r.Context(), dto.Pin)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", emp.ToResponse())
}

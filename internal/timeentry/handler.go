package timeentry

import (
	"fmt"
	"net/http"

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

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var dto PinDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	result, err := h.Service.ClockIn(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, fmt.Sprintf("%s clocked in successfully.", result.EmployeeName), result)
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	var dto ClockOutDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	result, err := h.Service.ClockOut(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, fmt.Sprintf("%s clocked out successfully.", result.EmployeeName), result)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	var dto PinDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	result, err := h.Service.Status(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", result)
}

func (h *Handler) MyEntries(w http.ResponseWriter, r *http.Request) {
	var dto MyEntriesDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	result, err := h.Service.MyEntries(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", result)
}

func (h *Handler) CreateEmployeeEntry(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeEntryDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	result, err := h.Service.CreateEmployeeEntry(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Time entry added successfully.", result)
}

func (h *Handler) UpdateEmployeeEntry(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto EmployeeEntryUpdateDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	entry, err := h.Service.UpdateEmployeeEntry(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Time entry updated successfully.", entry.ToResponse())
}

func (h *Handler) DeleteEmployeeEntry(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var dto PinDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	if err := h.Service.DeleteEmployeeEntry(r.Context(), id, dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Time entry deleted successfully.", nil)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := ParseListQuery(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	entries, err := h.Service.List(r.Context(), q)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", ToResponses(entries))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	var patch EntryPatch
	if appErr := h.DecodeJSON(r, &patch); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	entry, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Time entry updated successfully.", entry.ToResponse())
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

	h.WriteSuccess(w, http.StatusOK, "Time entry deleted successfully.", nil)
}

func (h *Handler) CreateManual(w http.ResponseWriter, r *http.Request) {
	var dto ManualEntryDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	result, err := h.Service.CreateManual(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Manual time entry created successfully.", result)
}

package admin

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/service"
)

// CustomPCHandler handles review of custom PC requests.
type CustomPCHandler struct {
	customPC service.CustomPCService
}

// NewCustomPCHandler creates a new custom PC handler
func NewCustomPCHandler(customPC service.CustomPCService) *CustomPCHandler {
	return &CustomPCHandler{customPC: customPC}
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// List handles GET /admin/custom-pc?status=
func (h *CustomPCHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.CustomPCStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.CustomPCPending, domain.CustomPCApproved, domain.CustomPCRejected, domain.CustomPCCompleted:
	default:
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "custompc.list", "unknown status %q", status))
		return
	}

	reqs, err := h.customPC.List(r.Context(), status)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]interface{}{
		"requests": reqs,
		"count":    len(reqs),
	})
}

// Get handles GET /admin/custom-pc/{id}
func (h *CustomPCHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	req, err := h.customPC.Get(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, req)
}

type notesAction func(ctx context.Context, id uuid.UUID, notes string) (*domain.CustomPCRequest, error)

// withNotes adapts a service call that takes an id and admin notes.
func withNotes(action notesAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handler.PathUUID(r, "id")
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}

		var req notesRequest
		if r.ContentLength != 0 {
			if err := handler.Decode(r, &req); err != nil {
				handler.ErrorResponse(w, r, err)
				return
			}
		}

		updated, err := action(r.Context(), id, req.Notes)
		if err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
		handler.JSON(w, http.StatusOK, updated)
	}
}

// Approve handles POST /admin/custom-pc/{id}/approve
func (h *CustomPCHandler) Approve(w http.ResponseWriter, r *http.Request) {
	withNotes(h.customPC.Approve)(w, r)
}

// Reject handles POST /admin/custom-pc/{id}/reject
func (h *CustomPCHandler) Reject(w http.ResponseWriter, r *http.Request) {
	withNotes(h.customPC.Reject)(w, r)
}

// Complete handles POST /admin/custom-pc/{id}/complete
func (h *CustomPCHandler) Complete(w http.ResponseWriter, r *http.Request) {
	withNotes(h.customPC.Complete)(w, r)
}

// UpdateNotes handles PUT /admin/custom-pc/{id}/notes
func (h *CustomPCHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	withNotes(h.customPC.UpdateNotes)(w, r)
}

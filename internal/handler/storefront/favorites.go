package storefront

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jokads/JokaTech/internal/domain"
	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/service"
)

type FavoritesHandler struct {
	favorites service.FavoritesService
}

func NewFavoritesHandler(favorites service.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

func writeFavorites(w http.ResponseWriter, favs []domain.Product) {
	handler.JSON(w, http.StatusOK, map[string]interface{}{
		"favorites": favs,
		"count":     len(favs),
	})
}

// List handles GET /api/favorites
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	favs, err := h.favorites.List(r.Context(), session)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	writeFavorites(w, favs)
}

// Add handles POST /api/favorites
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.ProductID == uuid.Nil {
		handler.ErrorResponse(w, r, domain.NewValidationError("favorites.add", "product_id", "is required"))
		return
	}

	favs, err := h.favorites.Add(r.Context(), session, req.ProductID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	writeFavorites(w, favs)
}

// Remove handles DELETE /api/favorites/{id}
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session, err := sessionID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	id, err := handler.PathUUID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	favs, err := h.favorites.Remove(r.Context(), session, id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	writeFavorites(w, favs)
}

package admin

import (
	"net/http"

	"github.com/jokads/JokaTech/internal/handler"
	"github.com/jokads/JokaTech/internal/service"
)

type LevelHandler struct {
	levels service.LevelService
}

func NewLevelHandler(levels service.LevelService) *LevelHandler {
	return &LevelHandler{levels: levels}
}

// List handles GET /admin/levels
func (h *LevelHandler) List(w http.ResponseWriter, r *http.Request) {
	levels, err := h.levels.List(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, map[string]interface{}{"levels": levels})
}

// Get handles GET /admin/levels/{email}
func (h *LevelHandler) Get(w http.ResponseWriter, r *http.Request) {
	level, err := h.levels.Get(r.Context(), r.PathValue("email"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, level)
}

// AwardXP handles POST /admin/levels/{email}/xp
func (h *LevelHandler) AwardXP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		XP int `json:"xp"`
	}
	if err := handler.Decode(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	level, err := h.levels.AwardXP(r.Context(), r.PathValue("email"), req.XP)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, level)
}

package handlers

import (
	"net/http"
	"time"

	helpers "blogplatform/internal/utils/helpers"
)

type HealthHandler struct {
	storage string
	started time.Time
}

func NewHealthHandler(storage string) *HealthHandler {
	return &HealthHandler{storage: storage, started: time.Now()}
}

// Health
// @Summary      Проверка состояния
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, "Server is running", helpers.Payload{
		"status":    "OK",
		"storage":   h.storage,
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC(),
	})
}

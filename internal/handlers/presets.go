package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List presets
// @Description  Named workout configurations accepted by the 'preset' field of start and restart.
// @Tags         presets
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, presets"
// @Router       /api/v1/presets [get]
func (h *Handler) listPresets(c *gin.Context) {
	presets := h.services.Presets.All()
	c.JSON(http.StatusOK, gin.H{
		"count":   len(presets),
		"presets": presets,
	})
}
